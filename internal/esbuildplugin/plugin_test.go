// SPDX-License-Identifier: MPL-2.0

package esbuildplugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"baggage-cli/pkg/baggage"
	"baggage-cli/pkg/companion"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/afero"
)

func TestLoaderFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want api.Loader
	}{
		{"a/b.js", api.LoaderJS},
		{"a/b.mjs", api.LoaderJS},
		{"a/b.cjs", api.LoaderJS},
		{"a/b.jsx", api.LoaderJSX},
		{"a/b.ts", api.LoaderTS},
		{"a/b.MTS", api.LoaderTS},
		{"a/b.cts", api.LoaderTS},
		{"a/b.tsx", api.LoaderTSX},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			if got := LoaderFor(tt.path); got != tt.want {
				t.Errorf("LoaderFor(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseLoader(t *testing.T) {
	t.Parallel()

	got, err := ParseLoader("CSS")
	if err != nil {
		t.Fatalf("ParseLoader() error = %v", err)
	}
	if got != api.LoaderCSS {
		t.Errorf("ParseLoader(CSS) = %v, want LoaderCSS", got)
	}

	if _, err := ParseLoader("sass"); err == nil {
		t.Error("ParseLoader(sass) expected error")
	}
}

func TestLoadInjectsAndWatchesCompanions(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeMem(t, fs, "/src/widget/view.js", "export default 1;\n")
	writeMem(t, fs, "/src/widget/view.css", ".view {}\n")

	tr := baggage.New(baggage.Options{
		Companions: []companion.Spec{{PathTemplate: "[file].css"}},
		Fs:         fs,
	})

	res, err := load(context.Background(), tr, "/src/widget/view.js")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if res.Contents == nil {
		t.Fatal("load() returned no contents")
	}
	want := "import './view.css';\nexport default 1;\n"
	if *res.Contents != want {
		t.Errorf("contents = %q, want %q", *res.Contents, want)
	}
	if res.ResolveDir != "/src/widget" {
		t.Errorf("ResolveDir = %q, want /src/widget", res.ResolveDir)
	}
	if len(res.WatchFiles) != 1 || res.WatchFiles[0] != filepath.Clean("/src/widget/view.css") {
		t.Errorf("WatchFiles = %v", res.WatchFiles)
	}
}

func TestLoadSkipsNodeModules(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeMem(t, fs, "/app/node_modules/lib/index.js", "module.exports = 1;\n")
	writeMem(t, fs, "/app/node_modules/lib/index.css", "")

	tr := baggage.New(baggage.Options{
		Companions: []companion.Spec{{PathTemplate: "[file].css"}},
		Fs:         fs,
	})

	res, err := load(context.Background(), tr, "/app/node_modules/lib/index.js")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if *res.Contents != "module.exports = 1;\n" {
		t.Errorf("dependency was transformed: %q", *res.Contents)
	}
}

func TestLoadMissingModule(t *testing.T) {
	t.Parallel()

	tr := baggage.New(baggage.Options{Fs: afero.NewMemMapFs()})
	if _, err := load(context.Background(), tr, "/nope.js"); err == nil {
		t.Fatal("load() expected error for missing module")
	}
}

func TestBundleIncludesCompanionStylesheet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeOS(t, filepath.Join(dir, "button", "button.js"), "export const label = 'ok';\nconsole.log(label);\n")
	writeOS(t, filepath.Join(dir, "button", "button.css"), ".companion-marker { color: red; }\n")

	tr := baggage.New(baggage.Options{
		Companions: []companion.Spec{{PathTemplate: "[file].css"}},
	})

	result, err := Bundle(context.Background(), tr, BundleOptions{
		EntryPoints: []string{filepath.Join(dir, "button", "button.js")},
		Outdir:      filepath.Join(dir, "out"),
	})
	if err != nil {
		t.Fatalf("Bundle() error = %v", err)
	}

	var css string
	for _, f := range result.OutputFiles {
		if strings.HasSuffix(f.Path, ".css") {
			css = string(f.Contents)
		}
	}
	if !strings.Contains(css, "companion-marker") {
		t.Errorf("bundle has no companion stylesheet; outputs: %d files", len(result.OutputFiles))
	}
}

func TestBundleReportsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeOS(t, filepath.Join(dir, "broken.js"), "import './missing-dependency';\n")

	tr := baggage.New(baggage.Options{})
	_, err := Bundle(context.Background(), tr, BundleOptions{
		EntryPoints: []string{filepath.Join(dir, "broken.js")},
		Outdir:      filepath.Join(dir, "out"),
	})
	if err == nil {
		t.Fatal("Bundle() expected error")
	}
	if !errors.Is(err, ErrBuildFailed) {
		t.Errorf("error = %v, want it to wrap ErrBuildFailed", err)
	}
}

func writeMem(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeOS(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
