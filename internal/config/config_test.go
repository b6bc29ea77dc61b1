package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "./ontology/schema.yaml", cfg.Schema.FilePath)
	assert.Equal(t, "./data", cfg.Data.RootPath)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 800, cfg.Overlay.DialogWidth)
	assert.Equal(t, 0, cfg.Overlay.DialogHeight)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("OVERLAY_DIALOG_WIDTH", "640")
	t.Setenv("OVERLAY_DIALOG_HEIGHT", "not-a-number")
	t.Setenv("TEMPLATES_DIR", "/srv/templates")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 640, cfg.Overlay.DialogWidth)
	assert.Equal(t, 0, cfg.Overlay.DialogHeight)
	assert.Equal(t, "/srv/templates", cfg.Templates.Dir)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DATA_ROOT_PATH=/var/lib/overlay\nLOG_LEVEL=debug\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("DATA_ROOT_PATH")
		os.Unsetenv("LOG_LEVEL")
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/overlay", cfg.Data.RootPath)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsNegativeDialog(t *testing.T) {
	t.Setenv("OVERLAY_DIALOG_WIDTH", "-1")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
