// Package logging builds the service's zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Config struct {
	Level   string
	Pretty  bool
	App     string
	Env     string
	Version string
	Output  io.Writer // Defaults to os.Stderr
}

// New returns a logger at the configured level, falling back to info for unknown levels
func New(c Config) zerolog.Logger {
	out := c.Output
	if out == nil {
		out = os.Stderr
	}
	if c.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(c.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", c.App).
		Str("env", c.Env).
		Str("version", c.Version).
		Logger()
}
