package config

import (
	"log/slog"
	"strings"
)

// ObservabilityConfig groups configuration that controls structured logging.
type ObservabilityConfig struct {
	// LogLevel is one of debug, info, warn, error. Unknown values fall back to info
	// (debug in development mode when unset).
	LogLevel string `env:"LOG_LEVEL" envDefault:""`
}

// Sanitize normalises the log level, picking a default based on the run mode.
func (c *ObservabilityConfig) Sanitize(isDev bool) {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		return
	case "":
		if isDev {
			c.LogLevel = "debug"
			return
		}
	}
	c.LogLevel = "info"
}

// SlogLevel converts the sanitised level into a slog.Level.
func (c *ObservabilityConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
