package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("PORTAL_BASE_URL", "https://portal.kampus.ac.id/")
	t.Setenv("PORTAL_USERNAME", "student")
	t.Setenv("PORTAL_PASSWORD", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{
		"TIMEZONE", "CRON_SPEC_COARSE", "CRON_SPEC_FINE",
		"REQUEST_TIMEOUT_SECONDS", "JITTER_MIN_SECONDS", "JITTER_MAX_SECONDS",
		"LOG_LEVEL", "ENVIRONMENT", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PortalBaseURL != "https://portal.kampus.ac.id" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.PortalBaseURL)
	}
	if cfg.Timezone != "Asia/Jakarta" {
		t.Fatalf("expected default timezone, got %q", cfg.Timezone)
	}
	if cfg.CronSpecCoarse != "*/15 7-17 * * 1-5" || cfg.CronSpecFine != "*/5 * * * *" {
		t.Fatalf("unexpected cron defaults: %q / %q", cfg.CronSpecCoarse, cfg.CronSpecFine)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected 15s request timeout, got %s", cfg.RequestTimeout)
	}
	if cfg.JitterMin != 9*time.Second || cfg.JitterMax != 60*time.Second {
		t.Fatalf("unexpected jitter defaults: %s / %s", cfg.JitterMin, cfg.JitterMax)
	}
	if cfg.LogLevel != "info" || cfg.Environment != "development" {
		t.Fatalf("unexpected log defaults: %q / %q", cfg.LogLevel, cfg.Environment)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	setRequired(t)
	t.Setenv("PORTAL_PASSWORD", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when PORTAL_PASSWORD is missing")
	}
}

func TestLoadRejectsInvertedJitterWindow(t *testing.T) {
	setRequired(t)
	t.Setenv("JITTER_MIN_SECONDS", "30")
	t.Setenv("JITTER_MAX_SECONDS", "10")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for inverted jitter window")
	}
}

func TestLoadRejectsTokenWithoutChatID(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when TELEGRAM_TOKEN is set without TELEGRAM_CHAT_ID")
	}
}

func TestLoadTelegramPair(t *testing.T) {
	setRequired(t)
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TelegramToken != "123:abc" || cfg.TelegramChatID != 42 {
		t.Fatalf("unexpected telegram config: %q / %d", cfg.TelegramToken, cfg.TelegramChatID)
	}
}
