// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel is the environment variable consulted for the default log level.
const EnvLogLevel = "LOG_LEVEL"

// ParseLogLevel maps a level name (debug, info, warn, error) to a slog.Level.
// Unknown or empty values map to slog.LevelInfo.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// SetDefaultStructuredLogger installs a JSON logger on stderr tagged with the
// tool name and version. The level is read from LOG_LEVEL.
func SetDefaultStructuredLogger(name, version string) {
	SetDefaultStructuredLoggerWithLevel(name, version, ParseLogLevel(os.Getenv(EnvLogLevel)))
}

// SetDefaultStructuredLoggerWithLevel is SetDefaultStructuredLogger with an explicit level.
func SetDefaultStructuredLoggerWithLevel(name, version string, level slog.Level) {
	slog.SetDefault(newJSONLogger(os.Stderr, level).With(
		slog.String("module", name),
		slog.String("version", version),
	))
}

// SetDefaultCLILogger installs a human readable text logger on stderr.
func SetDefaultCLILogger(level slog.Level) {
	slog.SetDefault(newTextLogger(os.Stderr, level))
}

func newJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}))
}

func newTextLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
