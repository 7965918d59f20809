// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	rootCmd := &cobra.Command{
		Use:   "baggage",
		Short: "Inject companion files into JavaScript modules",
		Long: TitleStyle.Render("baggage") + SubtitleStyle.Render(" - Inject companion files into JavaScript modules") + `

baggage prepends import or require statements for the companion files that
sit next to a module (stylesheets, templates, locale data) and shifts the
module's source map to match.

Companions are configured in 'baggage.cue' (or 'baggage.toml') in the
working directory. Each entry is a path template using [dir] for the
containing directory name and [file] for the module's base name.

` + SubtitleStyle.Render("Examples:") + `
  baggage transform src/button/button.js   Print the transformed module
  baggage watch src                        Rewrite modules as they change
  baggage bundle src/index.js              Bundle with esbuild
  baggage config show                      Show current configuration`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is ./baggage.cue or ./baggage.toml)")

	rootCmd.AddCommand(newTransformCommand(app, flags))
	rootCmd.AddCommand(newWatchCommand(app, flags))
	rootCmd.AddCommand(newBundleCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	// fang overrides rootCmd.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
