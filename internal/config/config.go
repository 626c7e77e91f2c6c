// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"

	"github.com/color/clr/internal/issue"
	"github.com/color/clr/pkg/cueutil"
	"github.com/color/clr/pkg/platform"
)

const (
	// AppName is the application name.
	AppName = "clr"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvCacheDir overrides cache.dir.
	EnvCacheDir = "CLR_CACHE_DIR"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the per-user clr directory: %APPDATA%\clr on Windows,
// ~/Library/Application Support/clr on macOS and $XDG_CONFIG_HOME/clr
// (defaulting to ~/.config/clr) elsewhere.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case platform.Windows:
		if base = os.Getenv("APPDATA"); base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate home directory: %w", err)
		}
		base = filepath.Join(home, "Library", "Application Support")
	default:
		if base = os.Getenv("XDG_CONFIG_HOME"); base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("locate home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, AppName), nil
}

// loadWithOptions layers, from lowest to highest precedence: DefaultConfig, the
// config file and $CLR_CACHE_DIR. It also returns the file that was read, or ""
// when none exists.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config: %w", err)
	}

	v := newViper()
	if err := v.BindEnv("cache.dir", EnvCacheDir); err != nil {
		return nil, "", fmt.Errorf("bind %s: %w", EnvCacheDir, err)
	}

	path, err := configFilePath(opts)
	if err != nil {
		return nil, "", err
	}

	var doc map[string]any
	if path != "" {
		if doc, err = readConfigFile(path); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare the values with the documented config schema").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}
	// MergeConfigMap folds the keys of doc to lower case in place, and namespace
	// keys are case-sensitive, so they are taken out first.
	namespaces := namespacesFrom(doc, filepath.Dir(path))
	if doc != nil {
		if err := v.MergeConfigMap(doc); err != nil {
			return nil, "", fmt.Errorf("merge %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("decode config: %w", err)
	}
	cfg.Namespaces = namespaces

	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(path).
			WithSuggestion("Namespace locators take the form scheme:target, e.g. \"script:./ops.toml\"").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errs[0]).
			BuildError()
	}
	return &cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	d := DefaultConfig()
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.disabled", d.Cache.Disabled)
	v.SetDefault("ui.color_scheme", d.UI.ColorScheme)
	v.SetDefault("ui.verbose", d.UI.Verbose)
	v.SetDefault("namespaces", map[string]any{})
	v.SetDefault("telemetry.enabled", d.Telemetry.Enabled)
	return v
}

// configFilePath picks the file to read. An explicit path must exist; the
// default location is optional and yields "" when absent.
func configFilePath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the path given to --config").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	dir := opts.ConfigDirPath
	if dir == "" {
		var err error
		if dir, err = ConfigDir(); err != nil {
			return "", err
		}
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if !fileExists(path) {
		return "", nil
	}
	return path, nil
}

// readConfigFile validates a config file against #Config. Every field is
// optional, so the document is decoded to a map and layered over the defaults
// by viper.
func readConfigFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config", cueutil.WithFilename(path))
	if err != nil {
		return nil, err
	}
	return *res.Value, nil
}

func namespacesFrom(doc map[string]any, dir string) map[string]Locator {
	out := map[string]Locator{}
	decls, _ := doc["namespaces"].(map[string]any)
	for key, locator := range decls {
		if s, ok := locator.(string); ok {
			out[key] = resolveLocator(Locator(s), dir)
		}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
