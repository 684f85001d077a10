// =============================================================================
// Card Transaction ETL - Logging
// =============================================================================

// Package logging sets up the process-wide structured logger. Logs go to
// stdout as JSON so the surrounding scheduler can collect them the same way
// it collects everything else.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Init builds the logger and installs it as the slog default. verbose forces
// the debug level regardless of the configured one.
func Init(levelStr string, verbose bool) *slog.Logger {
	level := parseLevel(levelStr)
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// RFC 3339 timestamps keep the log stream machine-readable.
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format(time.RFC3339))
				}
			}
			return a
		},
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts))
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("invalid log level, defaulting to info", "configuredLevel", s)
		return slog.LevelInfo
	}
}
