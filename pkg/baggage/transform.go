// SPDX-License-Identifier: MPL-2.0

package baggage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"baggage-cli/pkg/companion"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// defaultFilePerm is used when writing back a module whose mode cannot be read.
const defaultFilePerm = 0o644

// ErrWriteBack is wrapped when a transformed module cannot be stored.
var ErrWriteBack = errors.New("write back")

type (
	// Options configures a Transformer.
	Options struct {
		// Companions lists the configured entries in injection order.
		Companions []companion.Spec
		// Placeholders sets the template tokens. The zero value selects
		// companion.DefaultPlaceholders.
		Placeholders companion.Placeholders
		// Fs is used to probe companions and write modules back. nil uses the
		// OS filesystem.
		Fs afero.Fs
		// StoreChanges overwrites the module file with the transformed code.
		StoreChanges bool
		// Logger receives debug output about skipped companions. nil discards.
		Logger *log.Logger
	}

	// Input is one module to transform.
	Input struct {
		// Path is the module's absolute file path.
		Path string
		// Source is the module text.
		Source []byte
		// Map is the incoming source map JSON, if any.
		Map []byte
		// Request identifies the transform in the regenerated map's file field.
		// Empty means Path.
		Request string
	}

	// Result is the transform output.
	Result struct {
		Code []byte
		Map  []byte
		// Injected lists the statements that were prepended.
		Injected []companion.Line
		// Changed is false when Code and Map are the input passed through.
		Changed bool
	}

	// Transformer injects companion statements into modules. It holds no
	// per-module state and is safe for concurrent use.
	Transformer struct {
		companions   []companion.Spec
		placeholders companion.Placeholders
		fs           afero.Fs
		storeChanges bool
		logger       *log.Logger
	}
)

// New creates a Transformer from opts.
func New(opts Options) *Transformer {
	placeholders := opts.Placeholders
	if placeholders == (companion.Placeholders{}) {
		placeholders = companion.DefaultPlaceholders()
	}
	fsys := opts.Fs
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	return &Transformer{
		companions:   append([]companion.Spec(nil), opts.Companions...),
		placeholders: placeholders,
		fs:           fsys,
		storeChanges: opts.StoreChanges,
		logger:       logger,
	}
}

// Fs returns the filesystem companions are probed on.
func (t *Transformer) Fs() afero.Fs {
	return t.fs
}

// Transform injects the existing companions of in.Path into in.Source.
// Missing or unreadable companions are skipped. A malformed incoming map or a
// failed write-back is returned as an error.
func (t *Transformer) Transform(ctx context.Context, in Input) (*Result, error) {
	text := string(in.Source)
	mc := companion.NewModuleContext(in.Path, text)
	syntax := mc.Syntax()

	found, err := t.probeAll(ctx, mc)
	if err != nil {
		return nil, err
	}

	lines := make([]companion.Line, 0, len(found))
	for _, r := range found {
		if r == nil {
			continue
		}
		lines = append(lines, companion.RenderLine(*r, syntax))
	}
	lines = companion.Dedupe(lines, text)

	if len(lines) == 0 {
		return &Result{Code: in.Source, Map: in.Map}, nil
	}

	request := in.Request
	if request == "" {
		request = in.Path
	}
	merged, err := Merge(text, lines, in.Map, request)
	if err != nil {
		return nil, fmt.Errorf("transform %s: %w", in.Path, err)
	}

	result := &Result{
		Code:     []byte(merged.Code),
		Map:      merged.Map,
		Injected: lines,
		Changed:  true,
	}

	t.logger.Debug("injected companions", "module", in.Path, "count", len(lines), "syntax", syntax)

	if t.storeChanges {
		if err := t.store(in.Path, result.Code); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// probeAll resolves and probes every companion concurrently. Slot i of the
// result holds companion i when its file exists and nil otherwise, so the
// configured order survives the fan-out.
func (t *Transformer) probeAll(ctx context.Context, mc companion.ModuleContext) ([]*companion.Resolved, error) {
	found := make([]*companion.Resolved, len(t.companions))

	g, gctx := errgroup.WithContext(ctx)
	for i, spec := range t.companions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := companion.Resolve(mc, spec, t.placeholders)
			existence, statErr := companion.ProbeErr(t.fs, r.AbsolutePath)
			if existence != companion.Exists {
				t.logger.Debug("skipping companion", "module", mc.AbsolutePath, "companion", r.AbsolutePath, "result", existence, "err", statErr)
				return nil
			}
			found[i] = &r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("probe companions of %s: %w", mc.AbsolutePath, err)
	}

	return found, nil
}

// store overwrites path with code, keeping the file's mode when it can be
// read. Concurrent transforms of the same path are not serialised.
func (t *Transformer) store(path string, code []byte) error {
	perm := os.FileMode(defaultFilePerm)
	if info, err := t.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := afero.WriteFile(t.fs, path, code, perm); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWriteBack, path, err)
	}
	t.logger.Debug("stored transformed module", "module", path)
	return nil
}
