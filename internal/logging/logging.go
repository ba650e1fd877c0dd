// Package logging builds the structured loggers used across autoimport.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ludo-technologies/autoimport/internal/constants"
)

// EnvLogLevel overrides the configured log level
const EnvLogLevel = constants.EnvVarPrefix + "_LOG_LEVEL"

// LevelSilent disables logging entirely
const LevelSilent = "silent"

// DefaultLevel is used when neither configuration nor environment set a level
const DefaultLevel = "info"

// ParseLevel converts a level name into a slog level. Silent reports true for "silent".
func ParseLevel(name string) (level slog.Level, silent bool, err error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug", "verbose", "trace":
		return slog.LevelDebug, false, nil
	case "", "info", "log":
		return slog.LevelInfo, false, nil
	case "warn", "warning":
		return slog.LevelWarn, false, nil
	case "error", "fatal":
		return slog.LevelError, false, nil
	case LevelSilent, "off", "none":
		return slog.LevelError, true, nil
	default:
		return slog.LevelInfo, false, fmt.Errorf("unknown log level %q", name)
	}
}

// Resolve returns the level from the environment when set, else configured
func Resolve(configured string) string {
	if env := os.Getenv(EnvLogLevel); env != "" {
		return env
	}
	if configured == "" {
		return DefaultLevel
	}
	return configured
}

// New creates a text logger writing to w at the named level. Unknown levels fall back to
// info.
func New(level string, w io.Writer) *slog.Logger {
	lvl, silent, _ := ParseLevel(level)
	if silent || w == nil {
		return Discard()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
