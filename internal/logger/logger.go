// Package logger provides leveled logging for the whole process.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Level represents a logging level.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

type leveledLogger struct {
	level  Level
	logger *log.Logger
}

var defaultLogger = &leveledLogger{
	level:  InfoLevel,
	logger: log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
}

func parseLevel(level string) Level {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "warn":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Init configures the default logger with the specified level and format.
// Format "text" adds the caller's file and line to each entry.
func Init(level string, format string) {
	flags := log.LstdFlags | log.Lmicroseconds
	if strings.ToLower(format) == "text" {
		flags |= log.Lshortfile
	}
	defaultLogger = &leveledLogger{
		level:  parseLevel(level),
		logger: log.New(os.Stderr, "", flags),
	}
}

// SetOutput redirects log output, primarily for tests.
func SetOutput(w io.Writer) {
	defaultLogger.logger.SetOutput(w)
}

func output(l Level, tag, format string, args ...any) {
	if defaultLogger.level > l {
		return
	}
	_ = defaultLogger.logger.Output(3, fmt.Sprintf(tag+format, args...))
}

func Debug(format string, args ...any) {
	output(DebugLevel, "[DEBUG] ", format, args...)
}

func Info(format string, args ...any) {
	output(InfoLevel, "[INFO] ", format, args...)
}

func Warn(format string, args ...any) {
	output(WarnLevel, "[WARN] ", format, args...)
}

func Error(format string, args ...any) {
	output(ErrorLevel, "[ERROR] ", format, args...)
}

func Fatal(format string, args ...any) {
	_ = defaultLogger.logger.Output(3, fmt.Sprintf("[FATAL] "+format, args...))
	os.Exit(1)
}
