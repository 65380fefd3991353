// Package logging builds the zerolog logger shared by every component.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/naka-gawa/top-repo-dashboard/internal/config"
)

// New returns a logger writing to w. Logs are discarded unless verbose is set.
func New(cfg config.LogConfig, verbose bool, w io.Writer) (zerolog.Logger, error) {
	if !verbose {
		return zerolog.Nop(), nil
	}

	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(cfg.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// NewFile is New writing to cfg.File, for callers that own the terminal.
// The returned closer must be called once logging is done.
func NewFile(cfg config.LogConfig, verbose bool) (zerolog.Logger, io.Closer, error) {
	if !verbose || cfg.File == "" {
		return zerolog.Nop(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("failed to open log file: %w", err)
	}
	// Plain JSON lines in files; colours make no sense there.
	cfg.Format = "json"
	logger, err := New(cfg, verbose, f)
	if err != nil {
		f.Close()
		return zerolog.Nop(), nil, err
	}
	return logger, f, nil
}
