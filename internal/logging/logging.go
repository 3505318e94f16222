// Package logging configures the process-wide slog.Logger per §6's
// observability requirement: line-oriented messages on stderr for startup,
// per-packet acceptance/refusal/forwarding, send failures, and
// unauthorized replies.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config mirrors internal/config.LoggingConfig so callers can pass that
// struct straight through without an adapter type.
type Config struct {
	Level            string
	Structured       bool
	StructuredFormat string
	IncludePID       bool
}

// Configure builds a *slog.Logger from cfg, sets it as slog.Default(), and
// returns it for explicit injection into the forwarding core and admin API.
func Configure(cfg Config) *slog.Logger {
	level := parseLevel(cfg.Level)
	out := io.Writer(os.Stderr)

	var handler slog.Handler
	if cfg.Structured && strings.ToLower(cfg.StructuredFormat) == "json" {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	}

	if cfg.IncludePID {
		handler = handler.WithAttrs([]slog.Attr{slog.Int("pid", os.Getpid())})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
