package logging

import (
	"context"
	"log/slog"
	"os"
)

type LoggingService struct {
	Logger *slog.Logger
}

var DefaultLoggingService *LoggingService

// consoleFallback catches log calls made before InitLogger runs (early
// config errors, tests). Debug level so nothing is silently dropped.
var consoleFallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
	Level: slog.LevelDebug,
}))

// InitLogger initializes the global logger instance
func InitLogger(logDir string) {
	DefaultLoggingService = &LoggingService{
		Logger: SetupLogger(logDir),
	}
	slog.SetDefault(DefaultLoggingService.Logger)
}

func logAt(level slog.Level, msg string, args ...any) {
	if DefaultLoggingService != nil && DefaultLoggingService.Logger != nil {
		DefaultLoggingService.Logger.Log(context.Background(), level, msg, args...)
		return
	}
	consoleFallback.Log(context.Background(), level, msg, args...)
}

// Package-level helpers for direct access

func Info(msg string, args ...any) {
	logAt(slog.LevelInfo, msg, args...)
}

func Warn(msg string, args ...any) {
	logAt(slog.LevelWarn, msg, args...)
}

func Error(msg string, args ...any) {
	logAt(slog.LevelError, msg, args...)
}

func Debug(msg string, args ...any) {
	logAt(slog.LevelDebug, msg, args...)
}
