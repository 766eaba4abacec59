package logger

import (
	"log/slog"
	"os"
	"strings"
)

// L is the global logger instance, initialized by InitLogger
var L *slog.Logger

// InitLogger initializes the global structured logger.
// Call once at application startup, after loading config.
func InitLogger(logLevel string) {
	var level slog.Level
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		slog.Warn("Invalid LOG_LEVEL specified, defaulting to info", "configuredLevel", logLevel)
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	L = slog.New(handler)
	slog.SetDefault(L)

	L.Info("Logger initialized", "level", level.String())
}
