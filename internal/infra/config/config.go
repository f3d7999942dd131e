package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	PortalBaseURL  string
	PortalUsername string
	PortalPassword string

	Timezone       string
	CronSpecCoarse string // business-hours sweep
	CronSpecFine   string // 5-minute polling while a session is active

	RequestTimeout time.Duration
	JitterMin      time.Duration
	JitterMax      time.Duration

	LogLevel    string
	Environment string

	TelegramToken  string // optional; empty disables the notifier
	TelegramChatID int64
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.PortalBaseURL = strings.TrimRight(os.Getenv("PORTAL_BASE_URL"), "/")
	if cfg.PortalBaseURL == "" {
		return nil, fmt.Errorf("PORTAL_BASE_URL is not set")
	}

	cfg.PortalUsername = os.Getenv("PORTAL_USERNAME")
	if cfg.PortalUsername == "" {
		return nil, fmt.Errorf("PORTAL_USERNAME is not set")
	}

	cfg.PortalPassword = os.Getenv("PORTAL_PASSWORD")
	if cfg.PortalPassword == "" {
		return nil, fmt.Errorf("PORTAL_PASSWORD is not set")
	}

	cfg.Timezone = os.Getenv("TIMEZONE")
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Jakarta"
	}

	cfg.CronSpecCoarse = os.Getenv("CRON_SPEC_COARSE")
	if cfg.CronSpecCoarse == "" {
		cfg.CronSpecCoarse = "*/15 7-17 * * 1-5" // Default: every 15 min, 07:00-17:59, weekdays
	}

	cfg.CronSpecFine = os.Getenv("CRON_SPEC_FINE")
	if cfg.CronSpecFine == "" {
		cfg.CronSpecFine = "*/5 * * * *" // Default: every 5 minutes
	}

	var err error
	if cfg.RequestTimeout, err = secondsEnv("REQUEST_TIMEOUT_SECONDS", 15); err != nil {
		return nil, err
	}
	if cfg.JitterMin, err = secondsEnv("JITTER_MIN_SECONDS", 9); err != nil {
		return nil, err
	}
	if cfg.JitterMax, err = secondsEnv("JITTER_MAX_SECONDS", 60); err != nil {
		return nil, err
	}
	if cfg.JitterMax <= cfg.JitterMin {
		return nil, fmt.Errorf("JITTER_MAX_SECONDS (%s) must exceed JITTER_MIN_SECONDS (%s)", cfg.JitterMax, cfg.JitterMin)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatIDStr := os.Getenv("TELEGRAM_CHAT_ID"); chatIDStr != "" {
		cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID == 0 {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID must be set when TELEGRAM_TOKEN is set")
	}

	return cfg, nil
}

func secondsEnv(name string, def int) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return time.Duration(def) * time.Second, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return time.Duration(n) * time.Second, nil
}
