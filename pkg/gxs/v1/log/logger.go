// Package log defines the public logging interface used across GXS packages.
package log

import (
	"context"
	"log/slog"
)

// Logger defines the public interface for logging operations within GXS.
// The engine, the batch runner and the CLI all log through it, so callers
// embedding the engine can plug in their own implementation.
type Logger interface {
	// Debugf logs a formatted message at the DEBUG level.
	Debugf(format string, args ...interface{})
	// Infof logs a formatted message at the INFO level.
	Infof(format string, args ...interface{})
	// Warnf logs a formatted message at the WARN level.
	Warnf(format string, args ...interface{})
	// Errorf logs a formatted message at the ERROR level. Implementations
	// should check if the last arg is an error and log it structurally.
	Errorf(format string, args ...interface{})

	// Log logs a message at the specified slog.Level with additional key-value attributes.
	Log(level slog.Level, msg string, args ...interface{})
	// LogCtx logs a message at the specified slog.Level, including trace IDs
	// from the context if supported by the implementation.
	LogCtx(ctx context.Context, level slog.Level, msg string, args ...interface{})

	// With returns a new Logger with the given attributes added to every entry.
	With(args ...interface{}) Logger
	// IsEnabled reports whether the logger emits entries at the given level.
	IsEnabled(level slog.Level) bool
}
