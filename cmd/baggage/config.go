// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"baggage-cli/internal/config"
	"baggage-cli/internal/issue"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `baggage config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage baggage configuration",
		Long: `Manage baggage configuration.

Configuration is read from --config, or from baggage.cue or baggage.toml in
the working directory. STORE_BAGGAGE_LOADER_CHANGES and BAGGAGE_STORE_CHANGES
override store_changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			showConfig(app, s)
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a starter configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app, rootFlags, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the CUE schema configuration files are checked against",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.Schema())
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.load(cmd.Context(), rootFlags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(s.cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, s *session) {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout
	cfg := s.cfg

	fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(out)

	if s.configPath != "" {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), s.configPath)
	} else {
		fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s:\n", keyStyle.Render("companions"))
	if len(cfg.Companions) == 0 {
		fmt.Fprintf(out, "  %s\n", SubtitleStyle.Render("(none configured)"))
	}
	for i, c := range cfg.Companions {
		var details []string
		if len(c.Loaders) > 0 {
			details = append(details, "loaders: "+strings.Join(c.Loaders, ", "))
		}
		if c.VarName != "" {
			details = append(details, "varName: "+c.VarName)
		}
		line := fmt.Sprintf("  %d. %s", i+1, valueStyle.Render(c.Path))
		if len(details) > 0 {
			line += " " + SubtitleStyle.Render("("+strings.Join(details, "; ")+")")
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("placeholders"))
	fmt.Fprintf(out, "  dir: %s\n", valueStyle.Render(cfg.Placeholders.Dir))
	fmt.Fprintf(out, "  file: %s\n", valueStyle.Render(cfg.Placeholders.File))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("store_changes"), valueStyle.Render(fmt.Sprintf("%v", cfg.StoreChanges)))
	fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("log_level"), valueStyle.Render(cfg.LogLevel))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(out, "  patterns: %s\n", valueStyle.Render(strings.Join(cfg.Watch.Patterns, ", ")))
	if len(cfg.Watch.Ignore) > 0 {
		fmt.Fprintf(out, "  ignore: %s\n", valueStyle.Render(strings.Join(cfg.Watch.Ignore, ", ")))
	}
	fmt.Fprintf(out, "  debounce: %s\n", valueStyle.Render(cfg.DebounceDuration().String()))
}

// starterConfig is the configuration written by `baggage config init`.
func starterConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Companions = []config.CompanionEntry{
		{Path: "[file].css"},
		{Path: "[file].html", Loaders: []string{"raw-loader"}, VarName: "template"},
	}
	return cfg
}

func initConfig(app *App, rootFlags *rootFlagValues, force bool) error {
	path := rootFlags.configPath
	if path == "" {
		path = config.ConfigFileName + ".cue"
	}

	exists, err := afero.Exists(app.Fs, path)
	if err != nil {
		return fmt.Errorf("check config file: %w", err)
	}
	if exists && !force {
		return issue.New("create configuration", path, fmt.Errorf("config file already exists: %s", path)).
			Suggest("Edit the existing file", "Pass --force to replace it")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := app.Fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := afero.WriteFile(app.Fs, path, []byte(config.GenerateCUE(starterConfig())), outputFilePerm); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}
