package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// newLogger builds the console logger that emits one timestamped progress
// line per stage.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
