// Package logging provides structured logging for go-pipeline-lag.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New creates a structured logger writing to stderr.
// Format should be "json" or "text"; verbose forces debug level.
func New(format string, verbose bool) *slog.Logger {
	return NewWithWriter(os.Stderr, format, verbose)
}

// NewWithWriter creates a logger that writes to a custom writer.
// Useful for tests and for silencing output under the TUI.
func NewWithWriter(w io.Writer, format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// SetDefault sets the default logger for the slog package.
func SetDefault(logger *slog.Logger) {
	slog.SetDefault(logger)
}
