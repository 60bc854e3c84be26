// Package logger provides a global logger for the application
package logger

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

// Init configures the global zerolog logger from the environment.
// ENVIRONMENT=dev|test enables trace logging; anything else logs info and
// above. LOG_LEVEL overrides both when set to a valid zerolog level.
func Init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env not loaded; continuing with existing environment")
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Caller().Logger()

	environment := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if environment == "" {
		environment = "prod"
	}

	var logLevel zerolog.Level
	switch environment {
	case "dev", "test":
		logLevel = zerolog.TraceLevel
	case "prod":
		logLevel = zerolog.InfoLevel
	default:
		logLevel = zerolog.InfoLevel
		log.Warn().Str("environment", environment).Msg("Unknown environment - defaulting to info level and above")
	}

	if override := os.Getenv("LOG_LEVEL"); override != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(override)); err == nil {
			logLevel = parsed
		} else {
			log.Warn().Str("LOG_LEVEL", override).Msg("Invalid LOG_LEVEL, keeping environment default")
		}
	}

	zerolog.SetGlobalLevel(logLevel)
	log.Info().Str("environment", environment).Stringer("level", logLevel).Msg("Logger initialised")
}
