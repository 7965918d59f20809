// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"path/filepath"
	"regexp"
	"slices"

	"baggage-cli/internal/esbuildplugin"
	"baggage-cli/internal/issue"
	"baggage-cli/internal/watch"
	"baggage-cli/pkg/baggage"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var moduleFile = regexp.MustCompile(esbuildplugin.ModuleFilter)

// watchFlagValues holds the flags of `baggage watch`.
type watchFlagValues struct {
	noInitial bool
	once      bool
}

func newWatchCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	flags := &watchFlagValues{}

	watchCmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rewrite modules in place as they change",
		Long: `Transform every module below dir (default the working directory) and
write the result back, then keep doing so for modules that change.

Modules are selected by watch.patterns in the configuration. Rewriting an
already transformed module is a no-op, so the watcher settles after its own
writes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runWatch(cmd.Context(), app, rootFlags, flags, dir)
		},
	}

	watchCmd.Flags().BoolVar(&flags.noInitial, "no-initial", false, "skip the initial pass over existing modules")
	watchCmd.Flags().BoolVar(&flags.once, "once", false, "run the initial pass and exit")

	return watchCmd
}

func runWatch(ctx context.Context, app *App, rootFlags *rootFlagValues, flags *watchFlagValues, dir string) error {
	if flags.noInitial && flags.once {
		return errors.New("--no-initial and --once cannot be used together")
	}

	s, err := app.load(ctx, rootFlags)
	if err != nil {
		return err
	}

	base, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve watch directory: %w", err)
	}

	logger := s.logger.WithPrefix("watch")
	r := &rewriter{
		app:     app,
		t:       app.transformer(s, true),
		base:    base,
		logger:  logger,
		verbose: rootFlags.verbose,
	}

	if !flags.noInitial {
		existing, err := watch.Scan(base, s.cfg.Watch.Patterns, s.cfg.Watch.Ignore)
		if err != nil {
			return app.fail(issue.New("scan watch directory", base, err).WithGuidance(issue.WatchFailedId))
		}
		n := r.rewrite(ctx, existing)
		fmt.Fprintf(app.stdout, "%s Initial pass: %d module(s) updated\n", CmdStyle.Render("→"), n)
	}
	if flags.once {
		return nil
	}

	w, err := watch.New(watch.Config{
		Patterns: s.cfg.Watch.Patterns,
		Ignore:   s.cfg.Watch.Ignore,
		Debounce: s.cfg.DebounceDuration(),
		BaseDir:  base,
		Logger:   logger,
		OnChange: func(ctx context.Context, changed []string) error {
			logger.Debug("detected changes", "count", len(changed))
			r.rewrite(ctx, changed)
			return nil
		},
	})
	if err != nil {
		return app.fail(issue.New("start watcher", base, err).WithGuidance(issue.WatchFailedId))
	}

	fmt.Fprintf(app.stdout, "%s Watching %s for changes (Ctrl+C to stop)...\n", CmdStyle.Render("→"), base)
	if err := w.Run(ctx); err != nil {
		return app.fail(issue.New("watch", base, err).WithGuidance(issue.WatchFailedId))
	}
	return nil
}

// rewriter transforms changed modules and writes them back.
type rewriter struct {
	app     *App
	t       *baggage.Transformer
	base    string
	logger  *log.Logger
	verbose bool
}

// rewrite transforms the modules affected by rels, paths relative to the
// watched directory, and returns how many were updated. Failures are reported and
// skipped so one broken module does not stop the watcher.
func (r *rewriter) rewrite(ctx context.Context, rels []string) int {
	updated := 0
	for _, rel := range r.expand(rels) {
		if ctx.Err() != nil {
			return updated
		}

		abs := filepath.Join(r.base, filepath.FromSlash(rel))
		src, err := afero.ReadFile(r.app.Fs, abs)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				r.logger.Debug("module removed", "module", rel)
			} else {
				r.logger.Warn("read module", "module", rel, "err", err)
			}
			continue
		}

		res, err := r.t.Transform(ctx, baggage.Input{Path: abs, Source: src})
		if err != nil {
			fmt.Fprintf(r.app.stderr, "%s %s\n", WarningStyle.Render("!"), formatErrorForDisplay(err, r.verbose))
			continue
		}
		if res.Changed {
			updated++
			fmt.Fprintf(r.app.stdout, "%s %s +%d\n", SuccessStyle.Render("✓"), rel, len(res.Injected))
		}
	}
	return updated
}

// expand maps changed paths to the modules they affect. A module stands for
// itself. Any other path may be a companion, so it stands for every module in
// its directory.
func (r *rewriter) expand(rels []string) []string {
	seen := make(map[string]struct{}, len(rels))
	for _, rel := range rels {
		if moduleFile.MatchString(rel) {
			seen[rel] = struct{}{}
			continue
		}
		dir := path.Dir(rel)
		entries, err := afero.ReadDir(r.app.Fs, filepath.Join(r.base, filepath.FromSlash(dir)))
		if err != nil {
			r.logger.Debug("list companion directory", "dir", dir, "err", err)
			continue
		}
		for _, e := range entries {
			if !e.IsDir() && moduleFile.MatchString(e.Name()) {
				seen[path.Join(dir, e.Name())] = struct{}{}
			}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}
