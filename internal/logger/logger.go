// Package logger builds the zerolog logger shared by the store, the HTTP
// server and the queue consumer.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/movie-catalog/internal/config"
)

const serviceName = "movie-catalog"

// New returns a logger writing to stdout in the configured format.
func New(cfg config.LoggingConfig, env string) zerolog.Logger {
	return NewWithWriter(cfg, env, os.Stdout)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(cfg config.LoggingConfig, env string, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", env).
		Logger()
}
