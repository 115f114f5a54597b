package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromManifest(t *testing.T) {
	dir := t.TempDir()
	manifest := `
[lint]
max_diagnostics = 25

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte(manifest), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Lint.MaxDiagnostics)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset sections keep their defaults.
	assert.Equal(t, "auto", cfg.Output.Color)
}

func TestLoadWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, ManifestName), []byte("[lint]\nmax_diagnostics = 7\n"), 0o644))

	cfg, err := Load(nested)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Lint.MaxDiagnostics)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestName), []byte("not [valid"), 0o644))
	_, err := Load(dir)
	assert.Error(t, err)
}
