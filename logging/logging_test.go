package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cinebook/config"
)

func TestNew_DisabledWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger, closer, err := New(config.Config{LogFile: path})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	defer closer.Close()

	logger.Info("hello")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, got %v", err)
	}
}

func TestNew_DebugWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	logger, closer, err := New(config.Config{Debug: true, LogFile: path})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	logger.Info("login succeeded", "user", 7)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "login succeeded") || !strings.Contains(string(data), "user=7") {
		t.Fatalf("unexpected log contents: %s", data)
	}
}
