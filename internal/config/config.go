package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment string
	HTTPPort    string
	LogLevel    string

	// Home Assistant actuator settings. When either is empty the gate
	// trigger short-circuits to a failure without a network call.
	HomeAssistantURL       string
	HomeAssistantWebhookID string
	WebhookTimeout         time.Duration

	// File-backed stores.
	TrustedNumbersPath string
	CallLogPath        string

	// SQLite database for users and notifications.
	DatabasePath string

	JWTSecret string

	// Shoutrrr URLs that receive external notifications.
	NotifyURLs []string
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:            getEnv("GATE_ENV", "development"),
		HTTPPort:               getEnv("GATE_HTTP_PORT", "8080"),
		LogLevel:               getEnv("GATE_LOG_LEVEL", "info"),
		HomeAssistantURL:       getEnv("GATE_HA_URL", ""),
		HomeAssistantWebhookID: getEnv("GATE_HA_WEBHOOK_ID", ""),
		WebhookTimeout:         getEnvSeconds("GATE_WEBHOOK_TIMEOUT", 10*time.Second),
		TrustedNumbersPath:     getEnv("GATE_TRUSTED_NUMBERS_PATH", filepath.Join("data", "trusted_numbers.json")),
		CallLogPath:            getEnv("GATE_CALL_LOG_PATH", filepath.Join("data", "call_attempts.log")),
		DatabasePath:           getEnv("GATE_DB_PATH", filepath.Join("data", "portvakt.db")),
		JWTSecret:              getEnv("GATE_JWT_SECRET", ""),
	}

	if urls := getEnv("GATE_NOTIFY_URLS", ""); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.NotifyURLs = append(cfg.NotifyURLs, u)
			}
		}
	}

	for _, p := range []string{cfg.TrustedNumbersPath, cfg.CallLogPath, cfg.DatabasePath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return Config{}, fmt.Errorf("ensure data directory: %w", err)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvSeconds(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if secs, err := strconv.Atoi(val); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}

	return fallback
}
