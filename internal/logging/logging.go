// Package logging provides a configured zerolog logger.
package logging

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a service-tagged JSON logger writing to stdout.
func New(serviceName string) zerolog.Logger {
	return zerolog.New(os.Stdout).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
}
