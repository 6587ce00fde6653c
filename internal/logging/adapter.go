package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Logger is the minimal leveled logging interface taken by long-lived
// background components such as session stores.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// SlogAdapter adapts an slog.Logger to the Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger. A nil logger falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// Debug logs at debug level. Args are alternating key-value pairs.
func (a *SlogAdapter) Debug(msg string, args ...interface{}) { a.logger.Debug(msg, args...) }

// Info logs at info level. Args are alternating key-value pairs.
func (a *SlogAdapter) Info(msg string, args ...interface{}) { a.logger.Info(msg, args...) }

// Warn logs at warn level. Args are alternating key-value pairs.
func (a *SlogAdapter) Warn(msg string, args ...interface{}) { a.logger.Warn(msg, args...) }

// Error logs at error level. Args are alternating key-value pairs.
func (a *SlogAdapter) Error(msg string, args ...interface{}) { a.logger.Error(msg, args...) }

// Logger returns the underlying slog.Logger.
func (a *SlogAdapter) Logger() *slog.Logger {
	return a.logger
}

// NewLogger builds the process logger. format is "text" (default) or "json";
// debug lowers the level to Debug.
func NewLogger(w io.Writer, format string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
