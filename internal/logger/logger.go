// Package logger builds the process-wide zerolog logger. All server-side
// diagnostics (store failures, broker errors, request logs) go through it;
// clients only ever see the opaque messages produced by handlers.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to stdout. In the dev environment the
// output is switched to the human-readable console writer.
func New(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
