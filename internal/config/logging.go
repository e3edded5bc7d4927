// Package config provides flag binding, validation, and logging setup for
// the templatize CLI. SetupLogging configures the global slog logger that
// the other internal packages log through via log/slog directly.
//
// The logging subsystem uses Go's stdlib log/slog package exclusively. All
// log output is directed to os.Stderr to keep stdout clean for piped output.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// SetupLogging configures the global slog default logger with the given log
// level and format. format should be "json" for JSON output or any other
// value (including empty string) for human-readable text output. All log
// output is directed to os.Stderr.
//
// Safe to call multiple times; each call replaces the previous global
// logger configuration.
func SetupLogging(level slog.Level, format string) {
	SetupLoggingWithWriter(level, format, os.Stderr)
}

// SetupLoggingWithWriter is SetupLogging with an explicit writer, used by
// tests to capture log output in a buffer instead of os.Stderr.
func SetupLoggingWithWriter(level slog.Level, format string, w io.Writer) {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ResolveLogLevel determines the slog.Level from CLI flags and environment
// variables. Priority order, highest to lowest:
//
//  1. TEMPLATIZE_DEBUG=1 -> slog.LevelDebug
//  2. verbose flag -> slog.LevelDebug
//  3. quiet flag -> slog.LevelError
//  4. default -> slog.LevelInfo
//
// If both verbose and quiet are set, verbose wins.
func ResolveLogLevel(verbose, quiet bool) slog.Level {
	if os.Getenv("TEMPLATIZE_DEBUG") == "1" {
		return slog.LevelDebug
	}
	if verbose {
		return slog.LevelDebug
	}
	if quiet {
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ResolveLogFormat reads TEMPLATIZE_LOG_FORMAT and returns "json" when it is
// set to that value (case-insensitive), otherwise "text".
func ResolveLogFormat() string {
	if strings.EqualFold(os.Getenv("TEMPLATIZE_LOG_FORMAT"), "json") {
		return "json"
	}
	return "text"
}

// NewLogger returns a child of the global default logger with a
// "component" attribute, so output can be filtered or identified by
// subsystem.
func NewLogger(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
