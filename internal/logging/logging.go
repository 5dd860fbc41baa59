// Package logging builds the process logger. Components receive the logger
// as a value rather than reaching for a package-level global, so tests can
// swap in a silent or capturing logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w at the given level.
// Unknown level strings fall back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Default returns a stderr console logger at the given level.
func Default(level string) zerolog.Logger {
	return New(os.Stderr, level)
}

// Nop returns a logger that discards everything. Used in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}
