package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "flashdeck-local.db", cfg.Local.Path)
	assert.Equal(t, "flashcardSets", cfg.Local.BlobKey)
	assert.Equal(t, "database", cfg.Remote.Backend)
	assert.Equal(t, 6, cfg.Identity.MinPasswordLength)
	assert.Equal(t, 60, cfg.Sharing.CacheTTLSeconds)
	assert.Equal(t, 15, cfg.Engine.FetchTimeoutSeconds)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REMOTE_BACKEND", "storage")
	t.Setenv("SHARING_CACHE_TTL_SECONDS", "5")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "storage", cfg.Remote.Backend)
	assert.Equal(t, 5, cfg.Sharing.CacheTTLSeconds)
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	yaml := "log:\n  level: debug\n  format: console\nlocal:\n  path: /tmp/device.db\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "/tmp/device.db", cfg.Local.Path)
}
