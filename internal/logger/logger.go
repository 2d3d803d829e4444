package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Log levels
const (
	LevelDebug = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	levelNames = map[int]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
	}

	minLevel atomic.Int32

	std = log.New(os.Stdout, "", log.Ldate|log.Ltime|log.Lmicroseconds)
)

func init() {
	minLevel.Store(LevelInfo)
}

// Logger tags every line with the component that wrote it.
type Logger struct {
	component string
}

// New creates a new logger for a specific component
func New(component string) *Logger {
	return &Logger{component: component}
}

// SetMinLevel changes the minimum log level at runtime
func SetMinLevel(level int) {
	minLevel.Store(int32(level))
}

// MinLevel returns the current minimum level.
func MinLevel() int {
	return int(minLevel.Load())
}

// ParseLevel maps a level name such as "warn" to its constant.
func ParseLevel(name string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// SetOutput redirects all component loggers.
func SetOutput(w io.Writer) {
	std.SetOutput(w)
}

func (l *Logger) logf(level int, format string, args ...interface{}) {
	if level < MinLevel() {
		return
	}
	prefix := fmt.Sprintf("[%s][%s] ", levelNames[level], l.component)
	std.Printf(prefix+format, args...)
}

// Writer returns an io.Writer that logs each write as one line at level.
func (l *Logger) Writer(level int) io.Writer {
	return levelWriter{l: l, level: level}
}

type levelWriter struct {
	l     *Logger
	level int
}

func (w levelWriter) Write(p []byte) (int, error) {
	w.l.logf(w.level, "%s", strings.TrimSpace(string(p)))
	return len(p), nil
}

// Debug logs debug information
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LevelDebug, format, args...)
}

// Info logs information messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LevelInfo, format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LevelWarn, format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LevelError, format, args...)
}
