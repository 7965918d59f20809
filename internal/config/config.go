// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"baggage-cli/internal/issue"
	"baggage-cli/pkg/companion"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "baggage"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "baggage"

	// StoreChangesEnv is the environment toggle for writing transformed
	// modules back to disk.
	StoreChangesEnv = "STORE_BAGGAGE_LOADER_CHANGES"
	// StoreChangesEnvAlt is the app-prefixed spelling of StoreChangesEnv.
	StoreChangesEnvAlt = "BAGGAGE_STORE_CHANGES"

	// maxConfigFileSize bounds config files read into memory.
	maxConfigFileSize = 1 << 20

	companionsKey = "companions"
)

//go:embed config_schema.cue
var configSchema string

type (
	// tomlFile is the TOML layout. Companions are an array of tables so
	// their order is explicit.
	tomlFile struct {
		Companion []tomlCompanion `toml:"companion"`
	}

	tomlCompanion struct {
		Path    string   `toml:"path"`
		Loaders []string `toml:"loaders"`
		VarName string   `toml:"varName"`
	}
)

// loadWithOptions reads defaults, the config file and the environment, in
// that order of precedence (lowest first).
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("placeholders.dir", defaults.Placeholders.Dir)
	v.SetDefault("placeholders.file", defaults.Placeholders.File)
	v.SetDefault("store_changes", defaults.StoreChanges)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("watch.patterns", defaults.Watch.Patterns)
	v.SetDefault("watch.ignore", defaults.Watch.Ignore)
	v.SetDefault("watch.debounce", defaults.Watch.Debounce)

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}

	var companions []CompanionEntry
	if path != "" {
		companions, err = loadFileIntoViper(v, path)
		if err != nil {
			return nil, "", issue.New("load configuration", path, err).
				Suggest(
					"Check the file syntax",
					"Verify the values match the schema shown by 'baggage config schema'",
				).
				WithGuidance(issue.ConfigLoadFailedId)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.Companions = companions

	lookup := opts.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if on, ok := storeChangesFromEnv(lookup); ok {
		cfg.StoreChanges = on
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", issue.New("validate configuration", path, err).
			Suggest(
				"Give each companion a unique, non-empty path template",
				"Use distinct placeholder tokens for dir and file",
			).
			WithGuidance(issue.ConfigLoadFailedId)
	}

	return &cfg, path, nil
}

// resolveConfigPath returns the explicit config file, or the first of
// baggage.cue and baggage.toml found in opts.Dir. An empty result means no
// file; that is not an error.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.New("load configuration", opts.ConfigFilePath, fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				Suggest(
					"Verify the file path is correct",
					"Run 'baggage config init' to create a starter file",
				).
				WithGuidance(issue.ConfigLoadFailedId)
		}
		return opts.ConfigFilePath, nil
	}

	for _, ext := range []string{".cue", ".toml"} {
		candidate := filepath.Join(opts.Dir, ConfigFileName+ext)
		if fileExists(candidate) {
			return candidate, nil
		}
	}
	return "", nil
}

// loadFileIntoViper merges the scalar settings of path into v and returns
// the ordered companion entries.
func loadFileIntoViper(v *viper.Viper, path string) ([]CompanionEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if len(data) > maxConfigFileSize {
		return nil, fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes", path, len(data), maxConfigFileSize)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return loadTOMLIntoViper(v, data)
	default:
		return loadCUEIntoViper(v, data, path)
	}
}

// loadCUEIntoViper validates data against #Config, merges everything except
// the companions into v, and reads the companions in field order.
func loadCUEIntoViper(v *viper.Viper, data []byte, path string) ([]CompanionEntry, error) {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return nil, formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return nil, formatCUEError(err, path)
	}
	delete(configMap, companionsKey)
	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	companions, err := orderedCompanions(unified.LookupPath(cue.ParsePath(companionsKey)))
	if err != nil {
		return nil, formatCUEError(err, path)
	}
	return companions, nil
}

// orderedCompanions walks the companions struct in declaration order.
func orderedCompanions(v cue.Value) ([]CompanionEntry, error) {
	if !v.Exists() {
		return nil, nil
	}

	iter, err := v.Fields()
	if err != nil {
		return nil, err
	}

	var out []CompanionEntry
	for iter.Next() {
		entry := CompanionEntry{Path: iter.Selector().Unquoted()}
		val := iter.Value()

		if loaders := val.LookupPath(cue.ParsePath("loaders")); loaders.Exists() {
			switch loaders.Kind() {
			case cue.StringKind:
				s, err := loaders.String()
				if err != nil {
					return nil, err
				}
				entry.Loaders = companion.SplitLoaders(s)
			default:
				if err := loaders.Decode(&entry.Loaders); err != nil {
					return nil, err
				}
			}
		}

		if varName := val.LookupPath(cue.ParsePath("varName")); varName.Exists() {
			s, err := varName.String()
			if err != nil {
				return nil, err
			}
			entry.VarName = s
		}

		out = append(out, entry)
	}
	return out, nil
}

// loadTOMLIntoViper merges the TOML settings into v and returns the
// [[companion]] entries in array order.
func loadTOMLIntoViper(v *viper.Viper, data []byte) ([]CompanionEntry, error) {
	var file tomlFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	var configMap map[string]any
	if err := toml.Unmarshal(data, &configMap); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	delete(configMap, "companion")
	if err := v.MergeConfigMap(configMap); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	out := make([]CompanionEntry, 0, len(file.Companion))
	for _, c := range file.Companion {
		out = append(out, CompanionEntry(c))
	}
	return out, nil
}

// storeChangesFromEnv reads the write-back toggle. Any non-empty value other
// than 0, false, no or off turns it on.
func storeChangesFromEnv(lookup func(string) (string, bool)) (on, set bool) {
	for _, name := range []string{StoreChangesEnv, StoreChangesEnvAlt} {
		val, ok := lookup(name)
		if !ok || val == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "0", "false", "no", "off":
			return false, true
		default:
			return true, true
		}
	}
	return false, false
}

// formatCUEError flattens a CUE error list into one message prefixed with
// the file path and the failing field path.
func formatCUEError(err error, path string) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return fmt.Errorf("%s: %w", path, err)
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := e.Error()
		if p := strings.Join(cueerrors.Path(e), "."); p != "" && !strings.HasPrefix(msg, p) {
			msg = p + ": " + msg
		}
		lines = append(lines, msg)
	}
	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", path, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", path, strings.Join(lines, "\n  "))
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// GenerateCUE renders cfg as a CUE config file.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// baggage configuration\n\n")
	sb.WriteString("companions: {\n")
	for _, c := range cfg.Companions {
		fmt.Fprintf(&sb, "\t%q: {", c.Path)
		var parts []string
		if len(c.Loaders) > 0 {
			parts = append(parts, "loaders: "+cueList(c.Loaders))
		}
		if c.VarName != "" {
			parts = append(parts, fmt.Sprintf("varName: %q", c.VarName))
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("}\n")
	}
	sb.WriteString("}\n")

	sb.WriteString("\nplaceholders: {\n")
	fmt.Fprintf(&sb, "\tdir:  %q\n", cfg.Placeholders.Dir)
	fmt.Fprintf(&sb, "\tfile: %q\n", cfg.Placeholders.File)
	sb.WriteString("}\n")

	fmt.Fprintf(&sb, "\nstore_changes: %v\n", cfg.StoreChanges)
	fmt.Fprintf(&sb, "log_level:     %q\n", cfg.LogLevel)

	if len(cfg.Watch.Patterns) > 0 || len(cfg.Watch.Ignore) > 0 || cfg.Watch.Debounce != "" {
		sb.WriteString("\nwatch: {\n")
		if len(cfg.Watch.Patterns) > 0 {
			fmt.Fprintf(&sb, "\tpatterns: %s\n", cueList(cfg.Watch.Patterns))
		}
		if len(cfg.Watch.Ignore) > 0 {
			fmt.Fprintf(&sb, "\tignore: %s\n", cueList(cfg.Watch.Ignore))
		}
		if cfg.Watch.Debounce != "" {
			fmt.Fprintf(&sb, "\tdebounce: %q\n", cfg.Watch.Debounce)
		}
		sb.WriteString("}\n")
	}

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// Schema returns the embedded CUE schema.
func Schema() string {
	return configSchema
}
