// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions selects where the user config is read from. Both fields are
	// optional; with neither set, config.cue in ConfigDir is used when present.
	LoadOptions struct {
		// ConfigFilePath is the --config flag. The file must exist.
		ConfigFilePath string
		// ConfigDirPath replaces ConfigDir, mainly for tests.
		ConfigDirPath string
	}

	// Provider yields the Config for one clr invocation. cmd/clr depends on this
	// interface so tests can hand it a fixed Config.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	cueProvider struct{}
)

// NewProvider returns the Provider backed by config.cue, viper defaults and
// $CLR_CACHE_DIR.
func NewProvider() Provider { return cueProvider{} }

func (cueProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}
