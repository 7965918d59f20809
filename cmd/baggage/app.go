// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"baggage-cli/internal/config"
	"baggage-cli/internal/issue"
	"baggage-cli/pkg/baggage"
	"baggage-cli/pkg/sourcemap"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
)

// issueStyle is the glamour style used for rendered guidance.
const issueStyle = "dark"

type (
	// App wires CLI services and shared dependencies. Every Cobra handler
	// receives an App and reads configuration, files and output writers
	// through it.
	App struct {
		Config    config.Provider
		Fs        afero.Fs
		stdout    io.Writer
		stderr    io.Writer
		lookupEnv func(string) (string, bool)
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config    config.Provider
		Fs        afero.Fs
		Stdout    io.Writer
		Stderr    io.Writer
		LookupEnv func(string) (string, bool)
	}

	// rootFlagValues holds the persistent flags shared by all commands.
	rootFlagValues struct {
		verbose    bool
		configPath string
	}

	// session is the loaded state one command run works with.
	session struct {
		cfg        *config.Config
		configPath string
		logger     *log.Logger
	}
)

// NewApp creates an App, filling unset dependencies with production defaults.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:    deps.Config,
		Fs:        deps.Fs,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
		lookupEnv: deps.LookupEnv,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Fs == nil {
		app.Fs = afero.NewOsFs()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	if app.lookupEnv == nil {
		app.lookupEnv = os.LookupEnv
	}
	return app
}

// load reads the configuration and builds the logger for one command run.
func (a *App) load(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, path, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configPath,
		LookupEnv:      a.lookupEnv,
	})
	if err != nil {
		return nil, a.fail(err)
	}

	level := cfg.Level()
	if flags.verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  level,
	})
	if path != "" {
		logger.Debug("loaded configuration", "path", path, "companions", len(cfg.Companions))
	}

	return &session{cfg: cfg, configPath: path, logger: logger}, nil
}

// transformer builds a Transformer from the session's configuration.
func (a *App) transformer(s *session, storeChanges bool) *baggage.Transformer {
	return baggage.New(baggage.Options{
		Companions:   s.cfg.Specs(),
		Placeholders: s.cfg.PlaceholderTokens(),
		Fs:           a.Fs,
		StoreChanges: storeChanges,
		Logger:       s.logger.WithPrefix("transform"),
	})
}

// fail reports err's guidance entry on stderr and attaches the exit code
// that entry maps to. Errors without guidance are returned unchanged.
func (a *App) fail(err error) error {
	id, ok := guidanceFor(err)
	if !ok {
		return err
	}
	a.printGuidance(id)
	if code, ok := exitCodes[id]; ok {
		return &ExitError{Code: code, Err: err}
	}
	return err
}

// printGuidance writes the rendered catalog entry for id to stderr.
// Rendering failures are ignored; the error itself is still reported.
func (a *App) printGuidance(id issue.Id) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	rendered, err := iss.Render(issueStyle)
	if err != nil {
		return
	}
	fmt.Fprint(a.stderr, rendered)
}

// guidanceFor returns the catalog entry attached to err or, for transform
// failures that carry none, the entry implied by their sentinel.
func guidanceFor(err error) (issue.Id, bool) {
	if id, ok := issue.GuidanceOf(err); ok {
		return id, true
	}
	switch {
	case errors.Is(err, baggage.ErrInvalidMap),
		errors.Is(err, sourcemap.ErrMalformedMappings),
		errors.Is(err, sourcemap.ErrUnsupportedVersion),
		errors.Is(err, sourcemap.ErrIndexMap):
		return issue.SourceMapMalformedId, true
	case errors.Is(err, baggage.ErrWriteBack):
		return issue.WriteBackFailedId, true
	default:
		return 0, false
	}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their own formatting; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
