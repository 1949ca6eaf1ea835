package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

var Log = zerolog.New(os.Stdout).With().Timestamp().Logger()

func Init() {
	InitWithWriter(os.Stdout)
}

// InitWithWriter configures the global logger from LOG_LEVEL and LOG_FORMAT
// ("console" by default, or "json").
func InitWithWriter(w io.Writer) {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	format := os.Getenv("LOG_FORMAT")
	if format == "" {
		format = "console"
	}

	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(w).With().Timestamp().Logger().Level(level)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger().Level(level)
	}

	Log = l
	zlog.Logger = l
}

// Component returns a child logger tagged with the component name.
func Component(name string) *zerolog.Logger {
	l := Log.With().Str("component", name).Logger()
	return &l
}
