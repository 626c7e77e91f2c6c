// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/color/clr/internal/issue"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}
	if cfg.UI.Verbose || cfg.Cache.Disabled || cfg.Cache.Dir != "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("expected telemetry to be enabled by default")
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config is invalid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux-only")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Setenv(EnvCacheDir, "")

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || !cfg.Telemetry.Enabled || len(cfg.Namespaces) != 0 {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Setenv(EnvCacheDir, "")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.cue"), `
cache: {
	dir:      "/var/cache/clr"
	disabled: true
}
ui: {
	color_scheme: "dark"
	verbose:      true
}
namespaces: {
	Deploy: "go:deploy"
	ops:    "script:ops/ops.toml"
}
telemetry: enabled: false
`)

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != filepath.Join(dir, "config.cue") {
		t.Errorf("resolved path = %q", path)
	}
	if cfg.Cache.Dir != "/var/cache/clr" || !cfg.Cache.Disabled {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark || !cfg.UI.Verbose {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry should be disabled")
	}
	if got := cfg.Namespaces["Deploy"]; got != "go:deploy" {
		t.Errorf("Namespaces[Deploy] = %q (keys must keep their case)", got)
	}
	if got, want := cfg.Namespaces["ops"], Locator("script:"+filepath.Join(dir, "ops", "ops.toml")); got != want {
		t.Errorf("Namespaces[ops] = %q, want %q", got, want)
	}
}

func TestLoad_EnvOverridesCacheDir(t *testing.T) {
	t.Setenv(EnvCacheDir, "/from/env")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.cue"), `cache: dir: "/from/file"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Cache.Dir != "/from/env" {
		t.Errorf("Cache.Dir = %q, want env value", cfg.Cache.Dir)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(EnvCacheDir, "")

	tests := []struct {
		name    string
		content string
		wantSub string
	}{
		{name: "syntax", content: "ui: {", wantSub: "config.cue"},
		{name: "bad color scheme", content: `ui: color_scheme: "neon"`, wantSub: "color_scheme"},
		{name: "bad locator", content: `namespaces: deploy: "deploy"`, wantSub: "namespaces"},
		{name: "unknown field", content: `colour: true`, wantSub: "colour"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "config.cue"), tt.content)

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected error")
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || !ae.HasSuggestions() {
				t.Errorf("error %T is not an actionable error with suggestions", err)
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantSub)
			}
		})
	}
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	t.Setenv(EnvCacheDir, "")

	path := writeFile(t, filepath.Join(t.TempDir(), "custom.cue"), `ui: verbose: true`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.UI.Verbose {
		t.Error("explicit config file was not applied")
	}

	_, err = NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "missing.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("missing explicit file error = %v", err)
	}
}

func TestLoad_NamespaceKeysKeepCase(t *testing.T) {
	t.Setenv(EnvCacheDir, "")

	path := writeFile(t, filepath.Join(t.TempDir(), "custom.cue"), `
namespaces: {
	Deploy: "go:deploy"
	deploy: "go:other"
	OPS:    "go:ops"
}
`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]Locator{"Deploy": "go:deploy", "deploy": "go:other", "OPS": "go:ops"}
	if len(cfg.Namespaces) != len(want) {
		t.Fatalf("Namespaces = %v, want %v", cfg.Namespaces, want)
	}
	for key, loc := range want {
		if cfg.Namespaces[key] != loc {
			t.Errorf("Namespaces[%s] = %q, want %q", key, cfg.Namespaces[key], loc)
		}
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestConfigIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "whitespace cache dir", mutate: func(c *Config) { c.Cache.Dir = "  " }, wantErr: ErrInvalidCacheDirPath},
		{name: "unknown color scheme", mutate: func(c *Config) { c.UI.ColorScheme = "neon" }, wantErr: ErrInvalidColorScheme},
		{name: "locator without scheme", mutate: func(c *Config) { c.Namespaces["x"] = "deploy" }, wantErr: ErrInvalidLocator},
		{name: "locator without target", mutate: func(c *Config) { c.Namespaces["x"] = "go:" }, wantErr: ErrInvalidLocator},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()
			if valid || len(errs) != 1 {
				t.Fatalf("IsValid() = %v, %v", valid, errs)
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("error %v does not wrap ErrInvalidConfig", errs[0])
			}
			var cfgErr *InvalidConfigError
			if !errors.As(errs[0], &cfgErr) {
				t.Fatalf("error is %T", errs[0])
			}
			found := false
			for _, fe := range cfgErr.FieldErrors {
				found = found || errors.Is(fe, tt.wantErr)
			}
			if !found {
				t.Errorf("FieldErrors = %v, want %v", cfgErr.FieldErrors, tt.wantErr)
			}
		})
	}
}
