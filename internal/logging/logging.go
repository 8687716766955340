// Package logging configures the slog loggers of the cppkg command.
//
// Logs go to stderr, as text by default or JSON with LOG_FORMAT=json. The
// level comes from the --log-level flag, then LOG_LEVEL, then INFO. Debug
// logs carry their source location.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Environment variables read by New.
const (
	LevelEnv  = "LOG_LEVEL"
	FormatEnv = "LOG_FORMAT"
)

// ParseLevel maps a case-insensitive level name to a slog level. Unknown
// names yield INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Options configures New.
type Options struct {
	Module  string
	Version string
	// Level overrides LOG_LEVEL when non-empty.
	Level string
	// JSON forces the JSON handler.
	JSON bool
}

// New returns a logger writing to w with module and version attributes.
func New(w io.Writer, opts Options) *slog.Logger {
	levelName := opts.Level
	if levelName == "" {
		levelName = os.Getenv(LevelEnv)
	}
	level := ParseLevel(levelName)
	hopts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}
	var h slog.Handler
	if opts.JSON || strings.EqualFold(os.Getenv(FormatEnv), "json") {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	logger := slog.New(h)
	if opts.Module != "" {
		logger = logger.With("module", opts.Module)
	}
	if opts.Version != "" {
		logger = logger.With("version", opts.Version)
	}
	return logger
}

// SetDefault installs a stderr logger built from opts as the slog default
// and returns it.
func SetDefault(opts Options) *slog.Logger {
	logger := New(os.Stderr, opts)
	slog.SetDefault(logger)
	return logger
}
