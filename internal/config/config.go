// Package config loads the optional devreplay.toml tool configuration.
// The file is discovered by walking up from a start directory, the same
// way the rule file's workspace is located by the editor.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestName is the optional tool configuration file.
const ManifestName = "devreplay.toml"

// Config is the tool-level configuration shared by the CLI and the
// language server. Zero values mean "use the default".
type Config struct {
	Lint   LintConfig   `toml:"lint"`
	Log    LogConfig    `toml:"log"`
	Output OutputConfig `toml:"output"`
}

// LintConfig tunes the lint pass.
type LintConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
}

// LogConfig tunes logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// OutputConfig tunes terminal rendering.
type OutputConfig struct {
	Color string `toml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Lint:   LintConfig{MaxDiagnostics: 100},
		Log:    LogConfig{Level: "info"},
		Output: OutputConfig{Color: "auto"},
	}
}

// Load finds the nearest devreplay.toml at or above startDir and merges it
// over the defaults. A missing manifest is not an error: the defaults are
// returned as-is.
func Load(startDir string) (Config, error) {
	cfg := Default()
	path, ok, err := findManifest(startDir)
	if err != nil || !ok {
		return cfg, err
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if cfg.Lint.MaxDiagnostics <= 0 {
		cfg.Lint.MaxDiagnostics = Default().Lint.MaxDiagnostics
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = Default().Log.Level
	}
	if cfg.Output.Color == "" {
		cfg.Output.Color = Default().Output.Color
	}
	return cfg, nil
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}
