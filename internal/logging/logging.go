// Package logging builds the structured loggers used across gitplay.
//
// Callers log through log/slog; records are rendered by a charmbracelet/log
// handler so the CLI and the MCP server share one format.
package logging

import (
	"io"
	"log/slog"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Format selects how log records are rendered.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

// New creates a slog.Logger writing to w at the given level.
// Unknown levels fall back to info and unknown formats to text.
func New(w io.Writer, level string, format Format) *slog.Logger {
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           ParseLevel(level),
		Prefix:          "gitplay",
		ReportTimestamp: true,
		Formatter:       formatter(format),
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel converts a level name (debug, info, warn, error) to a charm level.
func ParseLevel(s string) charmlog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	level, err := charmlog.ParseLevel(s)
	if err != nil {
		return charmlog.InfoLevel
	}
	return level
}

// ParseFormat converts a format name to a Format.
func ParseFormat(s string) Format {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON
	case FormatLogfmt:
		return FormatLogfmt
	default:
		return FormatText
	}
}

func formatter(f Format) charmlog.Formatter {
	switch f {
	case FormatJSON:
		return charmlog.JSONFormatter
	case FormatLogfmt:
		return charmlog.LogfmtFormatter
	default:
		return charmlog.TextFormatter
	}
}
