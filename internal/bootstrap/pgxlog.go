package bootstrap

import (
	"context"
	"log/slog"
	"sort"

	"github.com/jackc/pgx/v5/tracelog"
)

// pgxLogger forwards pgx trace output to slog.
type pgxLogger struct {
	logger *slog.Logger
}

// NewPgxLogger adapts logger to pgx's tracelog.Logger.
//
//nolint:ireturn // tracelog.TraceLog takes the interface.
func NewPgxLogger(logger *slog.Logger) tracelog.Logger {
	return &pgxLogger{logger: logger.With("component", "pgx")}
}

// Log implements tracelog.Logger. Attributes are sorted by key.
func (l *pgxLogger) Log(ctx context.Context, level tracelog.LogLevel, msg string, data map[string]any) {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, data[k]))
	}
	l.logger.LogAttrs(ctx, pgxToSlogLevel(level), msg, attrs...)
}

func pgxToSlogLevel(level tracelog.LogLevel) slog.Level {
	switch level {
	case tracelog.LogLevelError:
		return slog.LevelError
	case tracelog.LogLevelWarn:
		return slog.LevelWarn
	case tracelog.LogLevelInfo:
		return slog.LevelInfo
	default:
		// trace, debug and none
		return slog.LevelDebug
	}
}
