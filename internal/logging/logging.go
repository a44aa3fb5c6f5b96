// Package logging builds the zerolog loggers the claimaudit commands
// write through. All output goes to stderr so report output on stdout
// stays machine-readable.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup returns a logger for one command. format is "text" for a
// human-friendly console or "json" for structured output; cmd tags every
// event with the subcommand that produced it.
func Setup(format, cmd string) zerolog.Logger {
	var l zerolog.Logger
	if format == "text" {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		l = zerolog.New(os.Stderr)
	}
	return l.With().Timestamp().Str("cmd", cmd).Logger()
}
