// Package trace provides nil-safe helpers around log/slog.
//
// Engine packages accept an optional *slog.Logger; a nil logger disables
// logging entirely. These wrappers centralize the nil/enabled checks so
// hot loops can log without guarding every call site, and the *Lazy
// variants defer attribute construction until logging is known to be on.
package trace

import (
	"context"
	"log/slog"
)

// LevelTrace is a custom level below debug for per-mapping matcher traces.
const LevelTrace = slog.Level(-8)

// Enabled reports whether logging at the given level is enabled.
// Returns false if logger is nil.
func Enabled(ctx context.Context, logger *slog.Logger, level slog.Level) bool {
	if logger == nil {
		return false
	}
	return logger.Enabled(ctx, level)
}

// Log logs msg at level if the logger is non-nil and enabled.
//
// Use for simple, pre-computed attributes only; the variadic attrs are
// evaluated at the call site even when logging is disabled. For computed
// attributes use [LogLazy].
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs ...slog.Attr) {
	if logger == nil || !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

// LogLazy logs at level with lazily-computed attributes.
//
// fn is not called when logging is disabled, guaranteeing no allocation
// from attribute construction in hot paths.
func LogLazy(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, fn func() []slog.Attr) {
	if logger == nil || !logger.Enabled(ctx, level) {
		return
	}
	logger.LogAttrs(ctx, level, msg, fn()...)
}

// Debug logs at Debug level. See [Log] for attribute-evaluation caveats.
func Debug(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelDebug, msg, attrs...)
}

// DebugLazy logs at Debug level with lazily-computed attributes.
func DebugLazy(ctx context.Context, logger *slog.Logger, msg string, fn func() []slog.Attr) {
	LogLazy(ctx, logger, slog.LevelDebug, msg, fn)
}

// Info logs at Info level.
func Info(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelInfo, msg, attrs...)
}

// Warn logs at Warn level.
func Warn(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	Log(ctx, logger, slog.LevelWarn, msg, attrs...)
}
