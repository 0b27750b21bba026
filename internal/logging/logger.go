// Package logging builds the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options configures NewLogger.
type Options struct {
	// Format is "text" or "json". Anything else falls back to text.
	Format  string
	Verbose bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// Level returns the minimum level for opts.
func Level(opts Options) slog.Level {
	if opts.Verbose || DebugEnabled() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// NewLogger creates a logger writing in the requested format.
func NewLogger(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: Level(opts)}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
