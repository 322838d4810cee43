package config

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger returns a slog.Logger writing to w, configured from the
// environment name and level. Production uses the JSON handler; otherwise text.
// level may be: debug, info, warn, error (default: info).
func NewLogger(environment, level string, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if environment == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
