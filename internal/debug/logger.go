// Package debug provides debug logging for ember using log/slog.
// Logging is off by default; Init(true) routes debug output to stderr.
package debug

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
)

// Init enables or disables debug logging. When enabled, records are
// written as slog text to stderr at debug level.
func Init(enable bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = enable
	if enable {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
}

// Enabled reports whether debug logging is on.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// Debug logs a message at debug level.
func Debug(msg string, args ...any) {
	current().Debug(msg, args...)
}

// Error logs a message at error level.
func Error(msg string, args ...any) {
	current().Error(msg, args...)
}

// Logger returns the underlying slog logger.
func Logger() *slog.Logger {
	return current()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
