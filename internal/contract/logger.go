package contract

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogger sets the global zerolog logger. The CLI gets a console
// writer on stderr; structured mode emits one JSON object per line for
// long-running hosts.
func ConfigureLogger(verbose, structured bool) {
	ConfigureLoggerTo(os.Stderr, verbose, structured)
}

// ConfigureLoggerTo is ConfigureLogger with an explicit destination.
func ConfigureLoggerTo(out io.Writer, verbose, structured bool) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	w := out
	if !structured {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	log.Logger = zerolog.New(w).
		With().
		Timestamp().
		Logger().
		Level(level)
}
