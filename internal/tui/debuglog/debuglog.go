// ABOUTME: File-backed slog logger for the TUI
// ABOUTME: Keeps structured logging off the terminal while bubbletea owns it

package debuglog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init opens debug.log in the config directory and routes the package
// logger to it. If configDir is empty, logging stays disabled.
// LOG_LEVEL follows the usual debug/info/warn/error values.
func Init(configDir string) error {
	mu.Lock()
	defer mu.Unlock()

	if configDir == "" {
		return nil
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(configDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}

	logFile = f
	logger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))
	return nil
}

// Close closes the log file and disables logging
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Log writes an info-level message with structured attributes
func Log(msg string, args ...any) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Info(msg, args...)
}

// Error logs an error with context; nil errors are ignored
func Error(context string, err error) {
	if err == nil {
		return
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Error(context, "err", err)
}

// parseLevel converts a string log level to slog.Level
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
