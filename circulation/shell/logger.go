package shell

import (
	"io"
	"log/slog"
)

// NewJSONLogger creates the default structured logger. *slog.Logger satisfies both Logger and ContextualLogger.
func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

var (
	_ Logger           = (*slog.Logger)(nil)
	_ ContextualLogger = (*slog.Logger)(nil)
)
