package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"NOTIFIER_ADDR", "NOTIFIER_TOKEN", "NOTIFIER_SETTINGS", "HISTORY_DB", "HISTORY_KEEP", "PRUNE_CRON", "REQUEST_TIMEOUT", "ZULIP_RATE_PER_SEC", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "notifier.yaml", cfg.SettingsPath)
	assert.Equal(t, "data/history.db", cfg.HistoryPath)
	assert.Equal(t, 50, cfg.HistoryKeep)
	assert.Equal(t, "0 3 * * *", cfg.PruneCron)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.ZulipRate)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("NOTIFIER_TOKEN", "tok")
	t.Setenv("HISTORY_KEEP", "-3")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("ZULIP_RATE_PER_SEC", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tok", cfg.WebhookToken)
	assert.Equal(t, 50, cfg.HistoryKeep)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5, cfg.ZulipRate)
}
