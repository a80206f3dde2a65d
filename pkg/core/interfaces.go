package core

import (
	"fmt"
	"log/slog"
	"strings"
)

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// slogLogger adapts a structured logger to the Printf-style Logger
type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an slog.Logger so it can be handed to the renderer
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

// NewDefaultLogger creates a logger writing through the default slog handler
func NewDefaultLogger() Logger {
	return NewSlogLogger(slog.Default())
}

func (l *slogLogger) Printf(format string, args ...interface{}) {
	l.logger.Info(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}
