// Package xlog is a minimal leveled logging facade used for the
// "log and continue" dispositions the error handling design calls for
// (cases where a fault must be recorded but must not turn into a Go error
// return). It wraps log/slog: no pack example vendors a third-party
// structured logger reachable from this module, so the standard library's
// own structured logger is used here and only here.
package xlog

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	current *slog.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
)

// Default returns the process-wide logger.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetDefault swaps the process-wide logger, mainly for test injection so
// assertions can be made against captured log output.
func SetDefault(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// Debug logs at debug level against the current default logger.
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }

// Info logs at info level against the current default logger.
func Info(msg string, args ...any) { Default().Info(msg, args...) }

// Warn logs at warn level against the current default logger.
func Warn(msg string, args ...any) { Default().Warn(msg, args...) }

// Error logs at error level against the current default logger.
func Error(msg string, args ...any) { Default().Error(msg, args...) }
