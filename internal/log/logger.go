// Package log builds the application's structured loggers. Every log line
// carries a component field so output from the server, the worker and the
// storage layer can be told apart.
package log

import (
	"log/slog"
	"os"
	"strings"
)

// Component names used across the application.
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentState   = "state"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// New builds the root logger writing text to stdout at the given level.
func New(level slog.Level) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// NewFromEnv builds the root logger with the level taken from LOG_LEVEL
// (debug, info, warn, error; default info).
func NewFromEnv() *slog.Logger {
	return New(ParseLevel(os.Getenv("LOG_LEVEL")))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent tags a logger with a component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With("component", component)
}
