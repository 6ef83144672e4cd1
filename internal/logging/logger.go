// Package logging builds the zerolog logger used by the exmerge CLI.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Config selects log level, format and destinations.
type Config struct {
	Level  string // debug, info, warn, error
	Format string // console or json
	File   string // optional extra destination
}

// Logger wraps a zerolog.Logger together with the file it may own.
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds a logger writing to out and, when cfg.File is set, to that
// file as JSON. An unparsable level falls back to info. Every logger
// carries a fresh run_id.
func New(cfg Config, out io.Writer) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var primary io.Writer = out
	if cfg.Format != "json" {
		primary = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}
	writers := []io.Writer{primary}

	l := &Logger{}
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, err
		}
		l.file = f
		writers = append(writers, f)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Str("run_id", NewRunID()).
		Logger()
	return l, nil
}

// NewRunID returns a sortable unique identifier for one CLI invocation.
func NewRunID() string {
	return ulid.Make().String()
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
