// Package logging configure le logger zerolog global de l'outil.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config décrit la sortie des journaux.
type Config struct {
	Level      string `yaml:"level" env:"TTMLSCRIBE_LOG_LEVEL"`   // debug, info, warn, error
	Format     string `yaml:"format" env:"TTMLSCRIBE_LOG_FORMAT"` // console, json
	TimeFormat string `yaml:"time_format"`
}

// DefaultConfig : console lisible, niveau warn pour ne pas polluer la sortie.
func DefaultConfig() Config {
	return Config{
		Level:      "warn",
		Format:     "console",
		TimeFormat: time.RFC3339,
	}
}

// Init installe le logger global. Les journaux vont sur stderr :
// stdout reste réservé aux documents produits (-o -).
func Init(cfg Config) {
	InitWriter(cfg, os.Stderr)
}

// InitWriter est Init avec une destination explicite (tests).
func InitWriter(cfg Config, out io.Writer) {
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)

	output := out
	if cfg.Format != "json" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	log.Logger = zerolog.New(output).
		With().
		Timestamp().
		Logger()
}

// Logger retourne le logger global.
func Logger() zerolog.Logger {
	return log.Logger
}

// WithComponent retourne un logger étiqueté par composant.
func WithComponent(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}
