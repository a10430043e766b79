// Package observability wires structured logging and Prometheus metrics for
// the feature-extraction batch.
package observability

import (
	"log/slog"
	"os"
)

// NewLogger builds a slog.Logger writing to stderr. format selects "json"
// (default) or "text"; level is one of debug/info/warn/error, defaulting to
// info on anything unrecognized.
func NewLogger(level, format string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
