package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINEBOOK_API_URL", "")
	t.Setenv("CINEBOOK_HTTP_TIMEOUT", "")
	t.Setenv("CINEBOOK_PAYMENT_DELAY", "")
	t.Setenv("CINEBOOK_DEBUG", "")

	cfg := Load()
	if cfg.APIURL != "http://localhost:8080" {
		t.Fatalf("unexpected api url: %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 12*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.PaymentDelay != 1500*time.Millisecond {
		t.Fatalf("unexpected payment delay: %s", cfg.PaymentDelay)
	}
	if cfg.Debug {
		t.Fatal("expected debug to be off")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINEBOOK_API_URL", "http://api.test:9000/")
	t.Setenv("CINEBOOK_HTTP_TIMEOUT", "3s")
	t.Setenv("CINEBOOK_PAYMENT_DELAY", "250")
	t.Setenv("CINEBOOK_DEBUG", "true")

	cfg := Load()
	if cfg.APIURL != "http://api.test:9000" {
		t.Fatalf("expected trailing slash to be trimmed, got %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.PaymentDelay != 250*time.Millisecond {
		t.Fatalf("unexpected payment delay: %s", cfg.PaymentDelay)
	}
	if !cfg.Debug {
		t.Fatal("expected debug to be on")
	}
}

func TestLoad_MalformedFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CINEBOOK_HTTP_TIMEOUT", "soon")
	t.Setenv("CINEBOOK_DEBUG", "maybe")

	cfg := Load()
	if cfg.HTTPTimeout != 12*time.Second {
		t.Fatalf("unexpected timeout: %s", cfg.HTTPTimeout)
	}
	if cfg.Debug {
		t.Fatal("expected debug fallback to false")
	}
}
