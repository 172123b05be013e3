// Package config loads process configuration from the environment. Every
// key has a default, so a bare environment is a valid one; the server takes
// no flags and reads no files.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config is the process-wide configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"YT_TRANSCRIPT_LOG_LEVEL,default=info"`

	// LogFormat is text or json.
	LogFormat string `env:"YT_TRANSCRIPT_LOG_FORMAT,default=text"`

	// HTTPTimeout bounds each outbound YouTube request.
	HTTPTimeout time.Duration `env:"YT_TRANSCRIPT_HTTP_TIMEOUT,default=30s"`

	// DefaultLanguages is the caption language preference applied when a
	// tool call sends none.
	DefaultLanguages []string `env:"YT_TRANSCRIPT_DEFAULT_LANGUAGES,default=en"`
}

// Load decodes Config from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decoding environment: %w", err)
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return &cfg, nil
}

// SlogLevel maps LogLevel to its slog.Level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", c.LogLevel)
	}
}
