package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testLocator(providers ...cityProvider) *Locator {
	l := NewLocator(http.DefaultClient)
	l.providers = providers
	return l
}

func TestDetectCity_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"city":"Pune","region":"Maharashtra","country_name":"India"}`))
	}))
	defer server.Close()

	city, err := testLocator(cityProvider{name: "custom", endpoint: server.URL, parse: parseIPAPI}).DetectCity(context.Background())
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if city.String() != "Pune, Maharashtra, India" {
		t.Fatalf("unexpected city: %q", city.String())
	}
	if city.Source != "custom" {
		t.Fatalf("expected source custom, got %q", city.Source)
	}
}

func TestDetectCity_Fallback(t *testing.T) {
	blocked := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><body>blocked</body></html>`))
	}))
	defer blocked.Close()

	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"city":"Mumbai","region":"Maharashtra","country":"India"}`))
	}))
	defer fallback.Close()

	city, err := testLocator(
		cityProvider{name: "blocked", endpoint: blocked.URL, parse: parseIPAPI},
		cityProvider{name: "fallback", endpoint: fallback.URL, parse: parseIPWhoIs},
	).DetectCity(context.Background())
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if city.Name != "Mumbai" || city.Source != "fallback" {
		t.Fatalf("unexpected city: %+v", city)
	}
}

func TestDetectCity_AllFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate   limited"))
	}))
	defer server.Close()

	_, err := testLocator(cityProvider{name: "limited", endpoint: server.URL, parse: parseIPAPI}).DetectCity(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "limited: 429 Too Many Requests: rate limited") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDetectCity_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testLocator(cityProvider{name: "any", endpoint: "http://127.0.0.1:1", parse: parseIPAPI}).DetectCity(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context canceled, got %v", err)
	}
}

func TestParseProviders(t *testing.T) {
	if _, err := parseIPAPI([]byte(`{"error":true,"reason":"RateLimited"}`)); err == nil || err.Error() != "RateLimited" {
		t.Fatalf("unexpected ipapi error: %v", err)
	}
	if _, err := parseIPWhoIs([]byte(`{"success":false}`)); err == nil {
		t.Fatal("expected ipwhois error")
	}
	if _, err := parseIPInfo([]byte(`{"bogon":true}`)); err == nil {
		t.Fatal("expected bogon error")
	}
	city, err := parseIPInfo([]byte(`{"city":"Delhi","region":"Delhi","country":"IN"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if city.String() != "Delhi, IN" {
		t.Fatalf("expected duplicate region folded, got %q", city.String())
	}
}

func TestDetectCity_NoProviders(t *testing.T) {
	if _, err := testLocator().DetectCity(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
