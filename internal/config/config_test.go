package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
	}
	if len(cfg.DefaultLanguages) != 1 || cfg.DefaultLanguages[0] != "en" {
		t.Errorf("DefaultLanguages = %v, want [en]", cfg.DefaultLanguages)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("YT_TRANSCRIPT_LOG_LEVEL", "debug")
	t.Setenv("YT_TRANSCRIPT_LOG_FORMAT", "json")
	t.Setenv("YT_TRANSCRIPT_HTTP_TIMEOUT", "5s")
	t.Setenv("YT_TRANSCRIPT_DEFAULT_LANGUAGES", "de;fr")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if lvl, err := cfg.SlogLevel(); err != nil || lvl != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, %v", lvl, err)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if len(cfg.DefaultLanguages) != 2 || cfg.DefaultLanguages[0] != "de" || cfg.DefaultLanguages[1] != "fr" {
		t.Errorf("DefaultLanguages = %v", cfg.DefaultLanguages)
	}
}

func TestLoadRejectsBadLevel(t *testing.T) {
	t.Setenv("YT_TRANSCRIPT_LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid log level")
	}
}
