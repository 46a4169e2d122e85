// Package debug provides the leveled logger shared by the graph, the renderer and the CLI.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// LogLevel represents the severity of a log message.
type LogLevel int

const (
	// LogLevelDebug is for detailed debugging information.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is for general informational messages.
	LogLevelInfo
	// LogLevelWarn is for warning messages.
	LogLevelWarn
	// LogLevelError is for error messages.
	LogLevelError
	// LogLevelOff disables all logging.
	LogLevelOff
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	case LogLevelOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelError + 64
	}
}

// ParseLevel converts "debug", "info", "warn", "error" or "off" to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "off", "none":
		return LogLevelOff, nil
	}
	return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Logger is a leveled key/value logger writing slog text records.
//
// The level is shared with every logger derived through With, so changing it
// on the root affects all component loggers.
type Logger struct {
	mu      sync.RWMutex
	output  io.Writer
	prefix  string
	attrs   []any
	level   *slog.LevelVar
	enabled *atomic.Bool
	handler *slog.Logger
}

var defaultLogger = New(os.Stderr, "", LogLevelInfo)

// New creates a new logger instance.
func New(output io.Writer, prefix string, level LogLevel) *Logger {
	l := &Logger{
		output:  output,
		prefix:  prefix,
		level:   new(slog.LevelVar),
		enabled: new(atomic.Bool),
	}
	l.level.Set(level.slogLevel())
	l.enabled.Store(true)
	l.rebuild()
	return l
}

// rebuild must be called with mu held for writing (or before l is shared).
func (l *Logger) rebuild() {
	lg := slog.New(slog.NewTextHandler(l.output, &slog.HandlerOptions{Level: l.level}))
	if l.prefix != "" {
		lg = lg.With("component", l.prefix)
	}
	if len(l.attrs) > 0 {
		lg = lg.With(l.attrs...)
	}
	l.handler = lg
}

// With returns a child logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c := &Logger{
		output:  l.output,
		prefix:  l.prefix,
		attrs:   append(append([]any(nil), l.attrs...), args...),
		level:   l.level,
		enabled: l.enabled,
	}
	c.rebuild()
	return c
}

// Slog exposes the underlying structured logger.
func (l *Logger) Slog() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.handler
}

// SetOutput sets the output destination for the logger.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.output = w
	l.rebuild()
}

// SetLevel sets the minimum log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.level.Set(level.slogLevel())
}

// SetPrefix sets the component name attached to every record.
func (l *Logger) SetPrefix(prefix string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefix = prefix
	l.rebuild()
}

// SetEnabled enables or disables the logger.
func (l *Logger) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

// IsEnabled returns whether the logger is enabled.
func (l *Logger) IsEnabled() bool {
	return l.enabled.Load()
}

func (l *Logger) log(level LogLevel, msg string, args ...any) {
	if !l.enabled.Load() {
		return
	}
	l.Slog().Log(context.Background(), level.slogLevel(), msg, args...)
}

// Debug logs a debug message with key/value pairs.
func (l *Logger) Debug(msg string, args ...any) {
	l.log(LogLevelDebug, msg, args...)
}

// Info logs an informational message.
func (l *Logger) Info(msg string, args ...any) {
	l.log(LogLevelInfo, msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.log(LogLevelWarn, msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.log(LogLevelError, msg, args...)
}

// Global logger functions

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// SetOutput sets the output destination for the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// SetLevel sets the minimum log level for the default logger.
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// SetPrefix sets the prefix for the default logger.
func SetPrefix(prefix string) {
	defaultLogger.SetPrefix(prefix)
}

// SetEnabled enables or disables the default logger.
func SetEnabled(enabled bool) {
	defaultLogger.SetEnabled(enabled)
}

// Debug logs a debug message using the default logger.
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Info logs an informational message using the default logger.
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Warn logs a warning message using the default logger.
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Error logs an error message using the default logger.
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// Conditional logging helpers

// DebugIf logs a debug message if the condition is true.
func DebugIf(condition bool, msg string, args ...any) {
	if condition {
		defaultLogger.Debug(msg, args...)
	}
}

// WarnIf logs a warning message if the condition is true.
func WarnIf(condition bool, msg string, args ...any) {
	if condition {
		defaultLogger.Warn(msg, args...)
	}
}

// ErrorIf logs an error message if the condition is true.
func ErrorIf(condition bool, msg string, args ...any) {
	if condition {
		defaultLogger.Error(msg, args...)
	}
}
