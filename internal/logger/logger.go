// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger tagged with the component name. Output goes to
// stderr so table output on stdout stays pipeable.
func New(component string) zerolog.Logger {
	return NewWithWriter(component, zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
}

// NewWithWriter is New with an explicit sink, for tests.
func NewWithWriter(component string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().
		Str("component", component).
		Timestamp().
		Logger()
}
