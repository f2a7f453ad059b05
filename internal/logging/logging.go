// ABOUTME: Leveled file logger shared by every component.
// ABOUTME: Writes to switcher.log in the config directory; falls back to stderr when uninitialized.

package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level controls which messages reach the log file
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.Mutex
	file     *os.File
	prefix   string
	minLevel = LevelInfo
)

// Init opens (or creates) the log file inside dir and returns its path.
// Call Close before process exit to flush the handle.
func Init(dir string) (string, error) {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create log directory: %w", err)
	}

	path := filepath.Join(dir, "switcher.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to open log file: %w", err)
	}

	if file != nil {
		_ = file.Close()
	}
	file = f
	return path, nil
}

// SetPrefix sets a short per-process marker (e.g. "PID:1234") prepended to every line
func SetPrefix(p string) {
	mu.Lock()
	defer mu.Unlock()
	prefix = p
}

// SetDebug enables or disables debug-level output
func SetDebug(enabled bool) {
	mu.Lock()
	defer mu.Unlock()
	if enabled {
		minLevel = LevelDebug
	} else {
		minLevel = LevelInfo
	}
}

// Close flushes and closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		_ = file.Close()
		file = nil
	}
}

// Debug logs a debug-level message
func Debug(format string, args ...interface{}) {
	write(LevelDebug, "DEBUG", format, args...)
}

// Info logs an info-level message
func Info(format string, args ...interface{}) {
	write(LevelInfo, "INFO", format, args...)
}

// Warn logs a warning-level message
func Warn(format string, args ...interface{}) {
	write(LevelWarn, "WARN", format, args...)
}

// Error logs an error-level message
func Error(format string, args ...interface{}) {
	write(LevelError, "ERROR", format, args...)
}

func write(level Level, tag, format string, args ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if level < minLevel {
		return
	}

	line := fmt.Sprintf("%s [%s]", time.Now().Format("2006-01-02 15:04:05.000"), tag)
	if prefix != "" {
		line += " " + prefix
	}
	line += " " + fmt.Sprintf(format, args...) + "\n"

	if file != nil {
		_, _ = file.WriteString(line)
	} else {
		_, _ = fmt.Fprint(os.Stderr, line)
	}
}
