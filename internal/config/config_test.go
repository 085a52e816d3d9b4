package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 60*time.Second, cfg.PollInterval.Std())
	assert.True(t, cfg.Desktop.Enabled)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.LogPath)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db_path: /tmp/custom.db
poll_interval: 30s
desktop:
  enabled: false
telegram:
  token: "123:abc"
  chat_id: 42
webhook:
  url: https://example.com/hook
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.PollInterval.Std())
	assert.False(t, cfg.Desktop.Enabled)
	assert.Equal(t, "123:abc", cfg.Telegram.Token)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.Equal(t, "https://example.com/hook", cfg.Webhook.URL)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TASKNAG_DB", "/tmp/env.db")
	t.Setenv("TASKNAG_POLL_INTERVAL", "5m")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, 5*time.Minute, cfg.PollInterval.Std())
}

func TestBadDurationRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("poll_interval: soon\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
