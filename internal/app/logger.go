package app

import (
	"fmt"
	"io"
	"os"
)

// Logger interface for app layer
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// log levels in severity order
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// leveledLogger writes to stderr, filtering below the configured level
type leveledLogger struct {
	output io.Writer
	level  int
}

// NewLogger creates a logger writing to w at the given level
// (debug/info/warn/error; unknown values default to info)
func NewLogger(w io.Writer, level string) Logger {
	return &leveledLogger{output: w, level: parseLevel(level)}
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func (l *leveledLogger) log(level int, prefix, format string, args ...interface{}) {
	if level < l.level {
		return
	}
	fmt.Fprintf(l.output, prefix+format+"\n", args...)
}

func (l *leveledLogger) Debug(format string, args ...interface{}) {
	l.log(levelDebug, "DEBUG: ", format, args...)
}

func (l *leveledLogger) Info(format string, args ...interface{}) {
	l.log(levelInfo, "INFO: ", format, args...)
}

func (l *leveledLogger) Warn(format string, args ...interface{}) {
	l.log(levelWarn, "WARN: ", format, args...)
}

func (l *leveledLogger) Error(format string, args ...interface{}) {
	l.log(levelError, "ERROR: ", format, args...)
}

// globalLogger is the logger instance used by app layer
var globalLogger Logger = &leveledLogger{output: os.Stderr, level: levelInfo}

// SetLogger sets the global logger for app layer
func SetLogger(logger Logger) {
	if logger != nil {
		globalLogger = logger
	}
}

// GetLogger returns the current logger
func GetLogger() Logger {
	return globalLogger
}
