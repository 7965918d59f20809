// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"baggage-cli/internal/issue"
	"baggage-cli/pkg/baggage"
	"baggage-cli/pkg/sourcemap"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const outputFilePerm = 0o644

// transformFlagValues holds the flags of `baggage transform`.
type transformFlagValues struct {
	mapPath      string
	out          string
	mapOut       string
	request      string
	write        bool
	dumpMappings bool
}

func newTransformCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &transformFlagValues{}

	transformCmd := &cobra.Command{
		Use:   "transform <file>",
		Short: "Inject companions into one module",
		Long: `Inject the existing companions of a module and print the result.

The transformed code goes to --out, or to stdout unless the module is written
back in place. When --map is given the shifted source map goes to --map-out,
or next to --out with a .map suffix.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, app, rootFlags, flags, args[0])
		},
	}

	transformCmd.Flags().StringVar(&flags.mapPath, "map", "", "incoming source map for the module")
	transformCmd.Flags().StringVarP(&flags.out, "out", "o", "", "write the transformed code to this file")
	transformCmd.Flags().StringVar(&flags.mapOut, "map-out", "", "write the shifted source map to this file")
	transformCmd.Flags().StringVar(&flags.request, "request", "", "identifier recorded as the map's file (default is the module path)")
	transformCmd.Flags().BoolVarP(&flags.write, "write", "w", false, "overwrite the module in place (default from store_changes)")
	transformCmd.Flags().BoolVar(&flags.dumpMappings, "dump-mappings", false, "print the decoded mappings of the shifted map to stderr")

	return transformCmd
}

func runTransform(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *transformFlagValues, file string) error {
	ctx := cmd.Context()

	s, err := app.load(ctx, rootFlags)
	if err != nil {
		return err
	}

	path, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("resolve module path: %w", err)
	}
	src, err := afero.ReadFile(app.Fs, path)
	if err != nil {
		return app.fail(issue.New("read module", path, err).
			Suggest("Check that the file exists and is readable").
			WithGuidance(issue.ModuleReadFailedId))
	}

	var inMap []byte
	if flags.mapPath != "" {
		inMap, err = afero.ReadFile(app.Fs, flags.mapPath)
		if err != nil {
			return issue.Wrap(err, "read source map", flags.mapPath)
		}
	}

	storeChanges := s.cfg.StoreChanges
	if cmd.Flags().Changed("write") {
		storeChanges = flags.write
	}

	res, err := app.transformer(s, storeChanges).Transform(ctx, baggage.Input{
		Path:    path,
		Source:  src,
		Map:     inMap,
		Request: flags.request,
	})
	if err != nil {
		return app.fail(err)
	}

	if res.Changed {
		s.logger.Info("injected companions", "module", path, "count", len(res.Injected))
	} else {
		s.logger.Debug("nothing to inject", "module", path)
	}

	switch {
	case flags.out != "":
		if err := afero.WriteFile(app.Fs, flags.out, res.Code, outputFilePerm); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	case !storeChanges:
		if _, err := app.stdout.Write(res.Code); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}

	if res.Map == nil {
		return nil
	}

	mapOut := flags.mapOut
	if mapOut == "" && flags.out != "" {
		mapOut = flags.out + ".map"
	}
	if mapOut != "" {
		if err := afero.WriteFile(app.Fs, mapOut, res.Map, outputFilePerm); err != nil {
			return fmt.Errorf("write source map: %w", err)
		}
	}

	if flags.dumpMappings {
		m, err := sourcemap.Parse(res.Map)
		if err != nil {
			return fmt.Errorf("decode shifted map: %w", err)
		}
		table, err := m.Decode()
		if err != nil {
			return fmt.Errorf("decode shifted map: %w", err)
		}
		spew.Fdump(app.stderr, table)
	}

	return nil
}
