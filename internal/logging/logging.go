// Package logging builds the zerolog logger used for diagnostics.
//
// Diagnostics go to stderr so stdout stays clean for command output. The
// default level is warn; verbose mode lowers it to debug. Callers must never
// attach secrets to log events.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// New returns a console logger writing to w.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.Kitchen,
		NoColor:    noColor(w),
	}

	return zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "kvault").
		Logger()
}

// NewStderr returns the process logger.
func NewStderr(verbose bool) zerolog.Logger {
	return New(os.Stderr, verbose)
}

func noColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return true
	}
	return !term.IsTerminal(int(f.Fd()))
}
