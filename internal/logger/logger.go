// Package logger provides the process-wide structured logger.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Log is the global service logger. It is initialized by Init and is safe
// to use as soon as the process starts (falls back to stdout at info level
// until Init is called).
var Log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Init configures the global logger from BRIDGE_LOG_LEVEL / BRIDGE_LOG_SINK.
// BRIDGE_LOG_SINK may be "stdout" (default) or "file:<path>".
func Init() {
	lvl := strings.ToLower(strings.TrimSpace(os.Getenv("BRIDGE_LOG_LEVEL")))
	var level slog.Level
	switch lvl {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	sink := os.Getenv("BRIDGE_LOG_SINK")
	if strings.HasPrefix(sink, "file:") {
		path := strings.TrimPrefix(sink, "file:")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640)
		if err == nil {
			Log = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
			return
		}
		fmt.Fprintf(os.Stderr, "failed to open log sink %s: %v\n", path, err)
	}
	Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }
func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
