package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewConsoleLogger logs text lines to stderr. Stdout is left to command output such as ciphertexts and
// key documents.
func NewConsoleLogger(level string) Logger {
	return NewWriterLogger(os.Stderr, level, false)
}

// NewFileLogger logs JSON lines to filePath, rotated by size (MB), backup count and age (days).
func NewFileLogger(level string, filePath string, maxSize int, maxBackups int, maxAge int) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
	return NewWriterLogger(writer, level, true)
}

// NewWriterLogger logs to w, as JSON when asJSON is set and as text otherwise.
func NewWriterLogger(w io.Writer, level string, asJSON bool) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if asJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return &SlogLogger{logger: slog.New(handler).With(slog.String("component", "rsa-engine"))}
}

// Info logs an informational message.
func (l *SlogLogger) Info(args ...interface{}) {
	l.logger.Info(formatArgs(args...))
}

// Warn logs a warning message.
func (l *SlogLogger) Warn(args ...interface{}) {
	l.logger.Warn(formatArgs(args...))
}

// Error logs an error message.
func (l *SlogLogger) Error(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
}

// Fatal logs an error message and exits with status 1.
func (l *SlogLogger) Fatal(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
	os.Exit(1)
}

// Panic logs an error message and panics with it.
func (l *SlogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Error(msg)
	panic(msg)
}
