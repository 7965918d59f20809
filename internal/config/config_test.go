// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"baggage-cli/internal/issue"
)

func noEnv(string) (string, bool) { return "", false }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.Placeholders.Dir != "[dir]" || cfg.Placeholders.File != "[file]" {
		t.Errorf("unexpected default placeholders: %+v", cfg.Placeholders)
	}
	if cfg.StoreChanges {
		t.Error("expected store_changes to be off by default")
	}
	if cfg.LogLevel != LogLevelInfo {
		t.Errorf("expected default log level info, got %q", cfg.LogLevel)
	}
	if len(cfg.Companions) != 0 {
		t.Errorf("expected no default companions, got %v", cfg.Companions)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(context.Background(), LoadOptions{Dir: t.TempDir(), LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected no resolved path, got %q", path)
	}
	if cfg.Level().String() != "info" {
		t.Errorf("Level() = %v", cfg.Level())
	}
	if !slices.Equal(cfg.Watch.Patterns, defaultWatchPatterns) {
		t.Errorf("Watch.Patterns = %v", cfg.Watch.Patterns)
	}
}

func TestLoad_CUEKeepsCompanionOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "baggage.cue", `
companions: {
	"[file].scss": {}
	"[file].json": {varName: "locale"}
	"../[dir].css": {loaders: "style-loader*css-loader"}
	"Zeta.md": {loaders: ["raw-loader"]}
	"alpha.txt": {}
}
log_level: "debug"
`)

	cfg, path, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != filepath.Join(dir, "baggage.cue") {
		t.Errorf("path = %q", path)
	}

	var got []string
	for _, c := range cfg.Companions {
		got = append(got, c.Path)
	}
	want := []string{"[file].scss", "[file].json", "../[dir].css", "Zeta.md", "alpha.txt"}
	if !slices.Equal(got, want) {
		t.Errorf("companion order = %v, want %v", got, want)
	}

	if cfg.Companions[1].VarName != "locale" {
		t.Errorf("varName = %q", cfg.Companions[1].VarName)
	}
	if !slices.Equal(cfg.Companions[2].Loaders, []string{"style-loader", "css-loader"}) {
		t.Errorf("string loaders = %v", cfg.Companions[2].Loaders)
	}
	if !slices.Equal(cfg.Companions[3].Loaders, []string{"raw-loader"}) {
		t.Errorf("list loaders = %v", cfg.Companions[3].Loaders)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log_level = %q", cfg.LogLevel)
	}
	if cfg.Placeholders.File != "[file]" {
		t.Errorf("default placeholders lost: %+v", cfg.Placeholders)
	}

	specs := cfg.Specs()
	if specs[1].VarNameTemplate != "locale" || specs[0].PathTemplate != "[file].scss" {
		t.Errorf("Specs() = %+v", specs)
	}
}

func TestLoad_CUESchemaViolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "baggage.cue", `
companions: {
	"[file].scss": {loaders: 3}
}
`)

	_, _, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: noEnv})
	if err == nil {
		t.Fatal("expected schema error")
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %T", err)
	}
	if ae.Operation != "load configuration" {
		t.Errorf("Operation = %q", ae.Operation)
	}
}

func TestLoad_CUEUnknownField(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "baggage.cue", `unknown_setting: true`)

	if _, _, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: noEnv}); err == nil {
		t.Fatal("expected closed schema to reject unknown field")
	}
}

func TestLoad_TOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "baggage.toml", `
store_changes = true

[placeholders]
file = "__name__"

[watch]
debounce = "150ms"

[[companion]]
path = "./__name__.scss"

[[companion]]
path = "__name__.json"
varName = "data"
loaders = ["json5-loader"]
`)

	cfg, _, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Companions) != 2 || cfg.Companions[0].Path != "./__name__.scss" {
		t.Fatalf("Companions = %+v", cfg.Companions)
	}
	if cfg.Companions[1].VarName != "data" || !slices.Equal(cfg.Companions[1].Loaders, []string{"json5-loader"}) {
		t.Errorf("second companion = %+v", cfg.Companions[1])
	}
	if !cfg.StoreChanges {
		t.Error("store_changes not read from TOML")
	}
	if got := cfg.PlaceholderTokens(); got.File != "__name__" || got.Dir != "[dir]" {
		t.Errorf("PlaceholderTokens() = %+v", got)
	}
	if cfg.DebounceDuration() != 150*time.Millisecond {
		t.Errorf("DebounceDuration() = %v", cfg.DebounceDuration())
	}
}

func TestLoad_TOMLDuplicateCompanion(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "baggage.toml", `
[[companion]]
path = "a.css"

[[companion]]
path = "a.css"
`)

	_, _, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: noEnv})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, _, err := Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected ActionableError, got %v", err)
	}
	if len(ae.Suggestions) == 0 {
		t.Error("expected suggestions")
	}
	if ae.Guidance != issue.ConfigLoadFailedId {
		t.Errorf("Guidance = %v, want ConfigLoadFailedId", ae.Guidance)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, LoadOptions{Dir: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStoreChangesFromEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		wantOn  bool
		wantSet bool
	}{
		{name: "unset", env: nil},
		{name: "empty", env: map[string]string{StoreChangesEnv: ""}},
		{name: "one", env: map[string]string{StoreChangesEnv: "1"}, wantOn: true, wantSet: true},
		{name: "arbitrary value", env: map[string]string{StoreChangesEnv: "yes please"}, wantOn: true, wantSet: true},
		{name: "false", env: map[string]string{StoreChangesEnv: "false"}, wantSet: true},
		{name: "off", env: map[string]string{StoreChangesEnv: "OFF"}, wantSet: true},
		{name: "alternate name", env: map[string]string{StoreChangesEnvAlt: "true"}, wantOn: true, wantSet: true},
		{name: "original name wins", env: map[string]string{StoreChangesEnv: "0", StoreChangesEnvAlt: "1"}, wantSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			on, set := storeChangesFromEnv(lookup)
			if on != tt.wantOn || set != tt.wantSet {
				t.Errorf("storeChangesFromEnv() = (%v, %v), want (%v, %v)", on, set, tt.wantOn, tt.wantSet)
			}
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "baggage.cue", `store_changes: false`)

	env := func(k string) (string, bool) {
		if k == StoreChangesEnv {
			return "1", true
		}
		return "", false
	}
	cfg, _, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: env})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.StoreChanges {
		t.Error("environment toggle should override the file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Companions = []CompanionEntry{{Path: " "}, {Path: "a"}, {Path: "a"}}
	cfg.Placeholders = PlaceholderConfig{Dir: "@", File: "@"}
	cfg.LogLevel = "loud"
	cfg.Watch.Debounce = "soon"

	err := cfg.Validate()
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if len(invalid.FieldErrors) != 5 {
		t.Errorf("expected 5 field errors, got %d: %v", len(invalid.FieldErrors), invalid.FieldErrors)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Error("error should wrap ErrInvalidConfig")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Companions = []CompanionEntry{
		{Path: "[file].scss"},
		{Path: "[file].json", VarName: "locale", Loaders: []string{"a", "b"}},
	}
	cfg.Watch.Debounce = "1s"

	dir := t.TempDir()
	writeFile(t, dir, "baggage.cue", GenerateCUE(cfg))

	got, _, err := Load(context.Background(), LoadOptions{Dir: dir, LookupEnv: noEnv})
	if err != nil {
		t.Fatalf("Load() of generated config error = %v", err)
	}
	if len(got.Companions) != 2 || got.Companions[1].VarName != "locale" || !slices.Equal(got.Companions[1].Loaders, []string{"a", "b"}) {
		t.Errorf("round trip companions = %+v", got.Companions)
	}
	if got.DebounceDuration() != time.Second {
		t.Errorf("round trip debounce = %v", got.DebounceDuration())
	}
}
