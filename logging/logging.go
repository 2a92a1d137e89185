package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"cinebook/config"
	"github.com/charmbracelet/log"
)

// New builds the application logger. The TUI owns the terminal, so logs go
// to a file and only when debugging is enabled. The returned closer must be
// called on shutdown.
func New(cfg config.Config) (*log.Logger, io.Closer, error) {
	if !cfg.Debug {
		return Discard(), nopCloser{}, nil
	}

	path := cfg.LogFile
	if path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, nil, err
		}
		path = filepath.Join(dir, "cinebook", "cinebook.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "cinebook",
		Level:           log.DebugLevel,
	})
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
