package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "png", cfg.Format)
	assert.True(t, cfg.IncludeTimestamp)
	assert.Equal(t, 90, cfg.JpegQuality)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".screensnaprc")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	// First-run convenience write.
	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".screensnaprc")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadUnsupportedFormatRepaired(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".screensnaprc")
	require.NoError(t, os.WriteFile(path, []byte(`{"format": "bmp"}`), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "png", cfg.Format)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".screensnaprc")
	require.NoError(t, os.WriteFile(path, []byte(`{"format": "JPG", "output_dir": "/tmp/shots"}`), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "jpg", cfg.Format, "format is lowercased")
	assert.Equal(t, "/tmp/shots", cfg.OutputDir)
	assert.True(t, cfg.IncludeTimestamp, "missing keys keep defaults")
	assert.Equal(t, 90, cfg.JpegQuality)
}

func TestLoadIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".screensnaprc")
	require.NoError(t, os.WriteFile(path, []byte(`{"format": "jpeg", "jpeg_quality": 40}`), 0644))

	first, err := Load(path)
	require.NoError(t, err)
	second, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestValidateRepairs(t *testing.T) {
	cfg := Default()
	cfg.Format = "gif"
	cfg.JpegQuality = 500
	cfg.OutputDir = ""
	cfg.Hotkey = Hotkey{}

	cfg.Validate()

	assert.Equal(t, "png", cfg.Format)
	assert.Equal(t, 90, cfg.JpegQuality)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, Default().Hotkey, cfg.Hotkey)
}

func TestResolvePrecedence(t *testing.T) {
	cfg := Default()

	resolved := cfg.Resolve(Overrides{OutputDir: "/tmp/override", Format: "jpg", JpegQuality: 50})

	assert.Equal(t, "/tmp/override", resolved.OutputDir)
	assert.Equal(t, "jpg", resolved.Format)
	assert.Equal(t, 50, resolved.JpegQuality)

	// The loaded config is untouched.
	assert.Equal(t, ".", cfg.OutputDir)
	assert.Equal(t, "png", cfg.Format)
}

func TestResolveEmptyOverrides(t *testing.T) {
	cfg := Default()

	resolved := cfg.Resolve(Overrides{})

	assert.Equal(t, cfg, resolved)
}

func TestSetHotkeyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".screensnaprc")
	cfg, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, cfg.SetHotkey(path, []string{"ctrl", "shift"}, "f5"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Hotkey{Modifiers: []string{"ctrl", "shift"}, Key: "f5"}, reloaded.Hotkey)
}
