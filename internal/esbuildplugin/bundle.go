// SPDX-License-Identifier: MPL-2.0

package esbuildplugin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"baggage-cli/pkg/baggage"

	"github.com/evanw/esbuild/pkg/api"
)

// ErrBuildFailed is wrapped when esbuild reports errors.
var ErrBuildFailed = errors.New("esbuild build failed")

// BundleOptions configures Bundle.
type BundleOptions struct {
	EntryPoints []string
	Outdir      string
	// Loaders maps extensions (".scss") to esbuild loaders for companions
	// esbuild does not handle by default.
	Loaders   map[string]api.Loader
	Sourcemap bool
	Write     bool
	// WorkDir is esbuild's absolute working directory; empty uses the cwd.
	WorkDir string
}

// Bundle builds opts.EntryPoints with the companion plugin installed.
func Bundle(ctx context.Context, t *baggage.Transformer, opts BundleOptions) (api.BuildResult, error) {
	sourcemap := api.SourceMapNone
	if opts.Sourcemap {
		sourcemap = api.SourceMapLinked
	}

	result := api.Build(api.BuildOptions{
		EntryPoints:   opts.EntryPoints,
		Bundle:        true,
		Outdir:        opts.Outdir,
		Write:         opts.Write,
		Loader:        opts.Loaders,
		Sourcemap:     sourcemap,
		AbsWorkingDir: opts.WorkDir,
		LogLevel:      api.LogLevelSilent,
		Plugins:       []api.Plugin{Plugin(ctx, t)},
	})

	if len(result.Errors) > 0 {
		msgs := make([]string, len(result.Errors))
		for i, m := range result.Errors {
			msgs[i] = formatMessage(m)
		}
		return result, fmt.Errorf("%w: %s", ErrBuildFailed, strings.Join(msgs, "; "))
	}
	return result, nil
}

func formatMessage(m api.Message) string {
	if m.Location == nil {
		return m.Text
	}
	return fmt.Sprintf("%s:%d:%d: %s", m.Location.File, m.Location.Line, m.Location.Column, m.Text)
}
