package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu  sync.RWMutex
	log = slog.New(slog.NewTextHandler(os.Stdout, nil))
)

// Init configures the package logger. Format "json" is used in production,
// anything else falls back to text.
func Init(level string, format string) {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	mu.Lock()
	log = slog.New(handler)
	mu.Unlock()
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// normalize allows a bare error as the first argument after the message,
// so both logger.Error("op failed", err) and
// logger.Error("op failed", "error", err) work.
func normalize(args []any) []any {
	if len(args) == 0 {
		return args
	}
	if err, ok := args[0].(error); ok {
		out := make([]any, 0, len(args)+1)
		out = append(out, "error", err)
		out = append(out, args[1:]...)
		return out
	}
	return args
}

func Debug(msg string, args ...any) {
	current().Debug(msg, normalize(args)...)
}

func Info(msg string, args ...any) {
	current().Info(msg, normalize(args)...)
}

func Warn(msg string, args ...any) {
	current().Warn(msg, normalize(args)...)
}

func Error(msg string, args ...any) {
	current().Error(msg, normalize(args)...)
}
