package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("MARQUEE_TMDB_API_KEY", "")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.IsConfigured())
	assert.Equal(t, "US", cfg.TMDB.Region)
	assert.Equal(t, 15*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	dir := t.TempDir()
	yaml := `
tmdb:
  api_key: file-key
  region: GB
  timeout: 5s
cache:
  redis_addr: localhost:6379
  ttl: 1h
ui:
  theme: light
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "file-key", cfg.TMDB.APIKey)
	assert.Equal(t, "GB", cfg.TMDB.Region)
	assert.Equal(t, 5*time.Second, cfg.TMDB.Timeout)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "light", cfg.UI.Theme)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDB.BaseURL, "unset keys keep defaults")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("MARQUEE_TMDB_API_KEY", "env-key")
	t.Setenv("MARQUEE_TMDB_REGION", "DE")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.TMDB.APIKey)
	assert.Equal(t, "DE", cfg.TMDB.Region)
}

func TestPlainAPIKeyEnvFallback(t *testing.T) {
	t.Setenv("MARQUEE_TMDB_API_KEY", "")
	t.Setenv("TMDB_API_KEY", "plain-key")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "plain-key", cfg.TMDB.APIKey)
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("MARQUEE_TMDB_API_KEY", "")
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.TMDB.APIKey = "saved-key"
	cfg.TMDB.Timeout = 3 * time.Second
	cfg.Storage.Dir = filepath.Join(dir, "data")
	require.NoError(t, Save(dir, cfg))

	info, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "saved-key", loaded.TMDB.APIKey)
	assert.Equal(t, 3*time.Second, loaded.TMDB.Timeout)
	assert.Equal(t, cfg.Storage.Dir, loaded.Storage.Dir)
}
