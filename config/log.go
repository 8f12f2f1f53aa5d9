package config

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup points the global logger at stderr, or at the log file when one is
// configured. The returned func closes the file.
func (c LogConfig) Setup(stderr io.Writer) (func() error, error) {
	level, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zerolog.SetGlobalLevel(level)

	if c.File == "" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr})
		return func() error { return nil }, nil
	}

	f, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: f, NoColor: true})
	return f.Close, nil
}
