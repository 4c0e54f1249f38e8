package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"arbscan/internal/config"
)

type Logger = zerolog.Logger

// NewLogger writes JSON to stderr, or console output when logging.pretty is
// set. Unknown levels fall back to info.
func NewLogger(cfg config.Config) Logger {
	var out io.Writer = os.Stderr
	if cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}
	return newLogger(out, cfg.Logging.Level)
}

func newLogger(out io.Writer, lvl string) Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	level, err := zerolog.ParseLevel(lvl)
	if err != nil || lvl == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "arbscan").Logger()
}

// Component returns a child logger tagged with the component name.
func Component(l Logger, name string) Logger {
	return l.With().Str("component", name).Logger()
}
