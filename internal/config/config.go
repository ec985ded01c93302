package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config contains runtime configuration values.
type Config struct {
	ListenAddr     string
	WebhookToken   string
	SettingsPath   string
	HistoryPath    string
	HistoryKeep    int
	PruneCron      string
	RequestTimeout time.Duration
	ZulipRate      int
	LogLevel       string
}

const (
	defaultListenAddr   = ":8080"
	defaultSettingsPath = "notifier.yaml"
	defaultHistoryPath  = "data/history.db"
	defaultHistoryKeep  = 50
	defaultPruneCron    = "0 3 * * *" // 03:00 every day
	defaultTimeout      = 30 * time.Second
	defaultZulipRate    = 5
	defaultLogLevel     = "info"
)

// Load builds a Config from environment variables with sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:     getenvDefault("NOTIFIER_ADDR", defaultListenAddr),
		WebhookToken:   getenvDefault("NOTIFIER_TOKEN", ""),
		SettingsPath:   getenvDefault("NOTIFIER_SETTINGS", defaultSettingsPath),
		HistoryPath:    getenvDefault("HISTORY_DB", defaultHistoryPath),
		HistoryKeep:    parseIntDefault("HISTORY_KEEP", defaultHistoryKeep),
		PruneCron:      getenvDefault("PRUNE_CRON", defaultPruneCron),
		RequestTimeout: parseDurationDefault("REQUEST_TIMEOUT", defaultTimeout),
		ZulipRate:      parseIntDefault("ZULIP_RATE_PER_SEC", defaultZulipRate),
		LogLevel:       getenvDefault("LOG_LEVEL", defaultLogLevel),
	}

	if cfg.SettingsPath == "" {
		return nil, fmt.Errorf("NOTIFIER_SETTINGS is required")
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultTimeout
	}

	if cfg.HistoryKeep <= 0 {
		cfg.HistoryKeep = defaultHistoryKeep
	}

	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseIntDefault(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}

func parseDurationDefault(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}
