// SPDX-License-Identifier: MPL-2.0

package config

import "context"

// LoadOptions defines explicit configuration loading inputs.
type LoadOptions struct {
	// ConfigFilePath forces loading from a specific config file when set.
	ConfigFilePath string
	// Dir is searched for baggage.cue then baggage.toml. Empty means the
	// working directory.
	Dir string
	// LookupEnv reads environment variables. nil uses os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Provider loads configuration from explicit options. Load also returns the
// resolved file path, empty when no file was found and defaults were used.
type Provider interface {
	Load(ctx context.Context, opts LoadOptions) (*Config, string, error)
}

type fileProvider struct{}

// NewProvider creates a configuration provider.
func NewProvider() Provider {
	return &fileProvider{}
}

// Load reads configuration from the requested source.
func (p *fileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}

// Load is NewProvider().Load.
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	return loadWithOptions(ctx, opts)
}
