package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text handler on stdout as the process-wide slog default.
// The level comes from LOG_LEVEL (debug|info|warn|error), info when unset.
func Setup() *slog.Logger {
	return SetupWriter(os.Stdout, os.Getenv("LOG_LEVEL"))
}

// SetupWriter is Setup with an explicit destination and level name.
func SetupWriter(w io.Writer, level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a level name to slog.Level, defaulting to Info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component returns the default logger tagged with a component name.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
