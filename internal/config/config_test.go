package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GATE_TRUSTED_NUMBERS_PATH", filepath.Join(dir, "trusted_numbers.json"))
	t.Setenv("GATE_CALL_LOG_PATH", filepath.Join(dir, "call_attempts.log"))
	t.Setenv("GATE_DB_PATH", filepath.Join(dir, "portvakt.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Empty(t, cfg.HomeAssistantURL)
	assert.Empty(t, cfg.NotifyURLs)
}

func TestLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GATE_TRUSTED_NUMBERS_PATH", filepath.Join(dir, "trusted_numbers.json"))
	t.Setenv("GATE_CALL_LOG_PATH", filepath.Join(dir, "call_attempts.log"))
	t.Setenv("GATE_DB_PATH", filepath.Join(dir, "portvakt.db"))
	t.Setenv("GATE_HTTP_PORT", "9000")
	t.Setenv("GATE_HA_URL", "http://homeassistant.local:8123")
	t.Setenv("GATE_HA_WEBHOOK_ID", "gate-hook")
	t.Setenv("GATE_WEBHOOK_TIMEOUT", "5")
	t.Setenv("GATE_NOTIFY_URLS", "discord://token@id, telegram://token@telegram?chats=1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.HTTPPort)
	assert.Equal(t, "http://homeassistant.local:8123", cfg.HomeAssistantURL)
	assert.Equal(t, "gate-hook", cfg.HomeAssistantWebhookID)
	assert.Equal(t, 5*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, []string{"discord://token@id", "telegram://token@telegram?chats=1"}, cfg.NotifyURLs)
}

func TestLoad_InvalidTimeoutFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GATE_TRUSTED_NUMBERS_PATH", filepath.Join(dir, "trusted_numbers.json"))
	t.Setenv("GATE_CALL_LOG_PATH", filepath.Join(dir, "call_attempts.log"))
	t.Setenv("GATE_DB_PATH", filepath.Join(dir, "portvakt.db"))
	t.Setenv("GATE_WEBHOOK_TIMEOUT", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
}
