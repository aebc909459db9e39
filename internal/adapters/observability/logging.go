package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns the zerolog Logger used across the harvester.
// Logs go to stderr so stdout stays usable for piping output around.
// APP_ENV=dev (or development) uses a human-friendly console writer.
func NewLogger(env string) zerolog.Logger {
	if env == "dev" || env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
