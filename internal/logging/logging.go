// Package logging builds the zerolog loggers used across qa-hipchat.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

const defaultLevel = zerolog.InfoLevel

// IsTerminal reports whether w is a terminal, in which case callers should
// pass console=true to New.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// New builds a logger writing to w at the named level. Unknown or empty level
// names fall back to info.
func New(w io.Writer, level string, console bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(ParseLevel(level)).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	trimmed := strings.ToLower(strings.TrimSpace(level))
	if trimmed == "" {
		return defaultLevel
	}
	parsed, err := zerolog.ParseLevel(trimmed)
	if err != nil || parsed == zerolog.NoLevel {
		return defaultLevel
	}
	return parsed
}
