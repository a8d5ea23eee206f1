package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	doc := "map:\n  zoom: 15\n  lat: 40.2\n  lng: 44.5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(doc), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Map.Zoom)
	assert.Equal(t, Default().Reference, cfg.Reference, "unset sections keep defaults")
	assert.Equal(t, 150, cfg.DebounceMs)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("map: ["), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Equal(t, Default(), cfg, "a broken file falls back to defaults")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())

	cfg.Map.Zoom = 30
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.DebounceMs = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PreloadConcurrency = 0
	assert.Error(t, cfg.Validate())
}

func TestDebounce(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce())
}
