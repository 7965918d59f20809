// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"baggage-cli/pkg/companion"

	"github.com/charmbracelet/log"
)

const (
	// LogLevelInfo is the default log level.
	LogLevelInfo = "info"

	defaultDebounce = 300 * time.Millisecond
)

var (
	// ErrInvalidConfig is wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	// defaultWatchPatterns selects JavaScript and TypeScript modules.
	defaultWatchPatterns = []string{"**/*.{js,mjs,cjs,jsx,ts,mts,cts,tsx}"}
)

type (
	// Config is the loaded configuration.
	Config struct {
		// Companions is set from the config file only; see package docs.
		Companions   []CompanionEntry  `mapstructure:"-"`
		Placeholders PlaceholderConfig `mapstructure:"placeholders"`
		StoreChanges bool              `mapstructure:"store_changes"`
		LogLevel     string            `mapstructure:"log_level"`
		Watch        WatchConfig       `mapstructure:"watch"`
	}

	// CompanionEntry is one configured companion file.
	CompanionEntry struct {
		Path    string
		Loaders []string
		VarName string
	}

	// PlaceholderConfig overrides the template token spellings.
	PlaceholderConfig struct {
		Dir  string `mapstructure:"dir"`
		File string `mapstructure:"file"`
	}

	// WatchConfig configures the watch command.
	WatchConfig struct {
		Patterns []string `mapstructure:"patterns"`
		Ignore   []string `mapstructure:"ignore"`
		Debounce string   `mapstructure:"debounce"`
	}

	// InvalidConfigError lists every problem found by Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Placeholders: PlaceholderConfig{
			Dir:  companion.DefaultDirToken,
			File: companion.DefaultFileToken,
		},
		LogLevel: LogLevelInfo,
		Watch: WatchConfig{
			Patterns: append([]string(nil), defaultWatchPatterns...),
		},
	}
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d problem(s): %s", ErrInvalidConfig, len(e.FieldErrors), strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Validate checks constraints the schema cannot express.
func (c *Config) Validate() error {
	var errs []error

	seen := make(map[string]int, len(c.Companions))
	for i, entry := range c.Companions {
		if strings.TrimSpace(entry.Path) == "" {
			errs = append(errs, fmt.Errorf("companions[%d]: empty path template", i))
			continue
		}
		if first, ok := seen[entry.Path]; ok {
			errs = append(errs, fmt.Errorf("companions[%d]: duplicate path template %q (same as companions[%d])", i, entry.Path, first))
			continue
		}
		seen[entry.Path] = i
	}

	if c.Placeholders.Dir != "" && c.Placeholders.Dir == c.Placeholders.File {
		errs = append(errs, fmt.Errorf("placeholders: dir and file tokens are both %q", c.Placeholders.Dir))
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if c.Watch.Debounce != "" {
		if d, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			errs = append(errs, fmt.Errorf("watch.debounce: %w", err))
		} else if d < 0 {
			errs = append(errs, fmt.Errorf("watch.debounce: negative duration %q", c.Watch.Debounce))
		}
	}

	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Specs converts the companion entries for the transformer.
func (c *Config) Specs() []companion.Spec {
	specs := make([]companion.Spec, len(c.Companions))
	for i, entry := range c.Companions {
		specs[i] = companion.Spec{
			PathTemplate:    entry.Path,
			VarNameTemplate: entry.VarName,
			Loaders:         append([]string(nil), entry.Loaders...),
		}
	}
	return specs
}

// PlaceholderTokens returns the configured template tokens.
func (c *Config) PlaceholderTokens() companion.Placeholders {
	return companion.Placeholders{Dir: c.Placeholders.Dir, File: c.Placeholders.File}
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// DebounceDuration returns the watch debounce, or the default when unset.
func (c *Config) DebounceDuration() time.Duration {
	if d, err := time.ParseDuration(c.Watch.Debounce); err == nil && d > 0 {
		return d
	}
	return defaultDebounce
}
