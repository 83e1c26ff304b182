package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_ADMIN_ID", "42")
	t.Setenv("OZON_CLIENT_ID", "client")
	t.Setenv("OZON_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, int64(42), cfg.Telegram.AdminID)
	assert.Equal(t, "client", cfg.Ozon.ClientID)

	// Defaults apply when the yaml file is absent.
	assert.Equal(t, 5*time.Minute, cfg.Monitor.Interval)
	assert.True(t, cfg.Monitor.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 200, cfg.Label.TextHeight)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_ADMIN_ID", "")
	t.Setenv("OZON_CLIENT_ID", "")
	t.Setenv("OZON_API_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}
