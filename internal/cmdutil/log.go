// internal/cmdutil/log.go
package cmdutil

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger returns a text logger on dst. quiet keeps errors only; verbose
// adds debug records. quiet wins when both are set.
func NewLogger(dst io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(dst, &slog.HandlerOptions{Level: level}))
}

// Discard is a logger that drops everything; handy for library defaults and tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// Warnf logs a printf-style warning; a nil logger is a no-op.
func Warnf(log *slog.Logger, format string, a ...any) {
	if log == nil {
		return
	}
	log.Warn(fmt.Sprintf(format, a...))
}
