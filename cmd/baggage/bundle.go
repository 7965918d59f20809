// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"baggage-cli/internal/esbuildplugin"
	"baggage-cli/internal/issue"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/cobra"
)

// bundleFlagValues holds the flags of `baggage bundle`.
type bundleFlagValues struct {
	outdir    string
	loaders   []string
	sourcemap bool
	dryRun    bool
}

func newBundleCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &bundleFlagValues{}

	bundleCmd := &cobra.Command{
		Use:   "bundle <entry>...",
		Short: "Bundle entry points with esbuild, injecting companions",
		Long: `Bundle the given entry points with esbuild. Every JavaScript or TypeScript
module esbuild loads outside node_modules gets its companions injected first.

Companion types esbuild has no default loader for need --loader, for example
--loader .scss=css or --loader .html=text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBundle(cmd, app, rootFlags, flags, args)
		},
	}

	bundleCmd.Flags().StringVarP(&flags.outdir, "outdir", "o", "dist", "output directory")
	bundleCmd.Flags().StringSliceVar(&flags.loaders, "loader", nil, "extension loader mapping, e.g. .scss=css (repeatable)")
	bundleCmd.Flags().BoolVar(&flags.sourcemap, "sourcemap", false, "emit linked source maps")
	bundleCmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "build without writing output files")

	return bundleCmd
}

func runBundle(cmd *cobra.Command, app *App, rootFlags *rootFlagValues, flags *bundleFlagValues, entries []string) error {
	ctx := cmd.Context()

	loaders, err := parseLoaderFlags(flags.loaders)
	if err != nil {
		return err
	}

	s, err := app.load(ctx, rootFlags)
	if err != nil {
		return err
	}

	outdir, err := filepath.Abs(flags.outdir)
	if err != nil {
		return fmt.Errorf("resolve output directory: %w", err)
	}
	abs := make([]string, len(entries))
	for i, e := range entries {
		if abs[i], err = filepath.Abs(e); err != nil {
			return fmt.Errorf("resolve entry point: %w", err)
		}
	}

	result, err := esbuildplugin.Bundle(ctx, app.transformer(s, s.cfg.StoreChanges), esbuildplugin.BundleOptions{
		EntryPoints: abs,
		Outdir:      outdir,
		Loaders:     loaders,
		Sourcemap:   flags.sourcemap,
		Write:       !flags.dryRun,
	})
	for _, w := range result.Warnings {
		s.logger.Warn(w.Text, "plugin", w.PluginName)
	}
	if err != nil {
		return app.fail(issue.New("bundle", strings.Join(entries, ", "), err).
			Suggest("Fix the reported build errors and run the bundle again").
			WithGuidance(issue.BundleFailedId))
	}

	if len(result.OutputFiles) == 0 {
		fmt.Fprintf(app.stdout, "%s Bundled %d entry point(s) into %s\n", SuccessStyle.Render("✓"), len(abs), CmdStyle.Render(flags.outdir))
		return nil
	}
	for _, f := range result.OutputFiles {
		rel, relErr := filepath.Rel(outdir, f.Path)
		if relErr != nil {
			rel = f.Path
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(filepath.Join(flags.outdir, rel)), SubtitleStyle.Render(fmt.Sprintf("(%d bytes)", len(f.Contents))))
	}
	return nil
}

// parseLoaderFlags turns ".ext=loader" values into an esbuild loader map.
func parseLoaderFlags(values []string) (map[string]api.Loader, error) {
	if len(values) == 0 {
		return nil, nil
	}
	loaders := make(map[string]api.Loader, len(values))
	for _, v := range values {
		ext, name, ok := strings.Cut(v, "=")
		if !ok || ext == "" || name == "" {
			return nil, fmt.Errorf("invalid --loader %q: want .ext=loader", v)
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		l, err := esbuildplugin.ParseLoader(name)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("invalid --loader %q", v), err)
		}
		loaders[ext] = l
	}
	return loaders, nil
}
