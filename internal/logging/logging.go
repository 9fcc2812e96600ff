package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger for the given environment.
// dev uses a human-readable console writer at debug level, everything
// else logs JSON at info level.
func Init(env string) {
	zerolog.TimestampFieldName = "timestamp"

	switch env {
	case "dev":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
