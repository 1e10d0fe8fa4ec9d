package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte("title = \"custom\"\nwidth = 800\n"), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.Title)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, DefaultConfig().Height, cfg.Height, "unset fields keep defaults")
	assert.Equal(t, DefaultConfig().VSync, cfg.VSync)
}

func TestLoadConfigRejectsDegenerateSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte("width = 0\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "positive")
}

func TestLoadConfigRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.toml")
	require.NoError(t, os.WriteFile(path, []byte("title = [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
