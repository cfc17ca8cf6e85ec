// Package logging builds the application logger. The terminal belongs to the
// UI, so log output always goes to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"zenchat/internal/config"

	"github.com/rs/zerolog"
)

// New opens cfg.Path for appending and returns a logger writing to it along
// with the file to close on exit. Supports "trace" | "debug" | "info" |
// "warn" | "error" levels and "json" | "console" formats.
func New(cfg config.LoggingConfig) (*zerolog.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file %s: %w", cfg.Path, err)
	}

	logger, err := NewWriter(f, cfg)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

// NewWriter builds a logger on an arbitrary writer
func NewWriter(w io.Writer, cfg config.LoggingConfig) (*zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}

	out := w
	if strings.ToLower(cfg.Format) == "console" {
		out = zerolog.ConsoleWriter{Out: w, NoColor: true, TimeFormat: time.RFC3339}
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &logger, nil
}

// Nop returns a logger that discards everything
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
