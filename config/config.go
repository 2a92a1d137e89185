package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultAPIURL       = "http://localhost:8080"
	defaultHTTPTimeout  = 12 * time.Second
	defaultPaymentDelay = 1500 * time.Millisecond
)

// Config holds the runtime settings of the client.
type Config struct {
	APIURL       string
	HTTPTimeout  time.Duration
	PaymentDelay time.Duration

	Debug   bool
	LogFile string
}

// Load reads an optional .env file from the working directory and then the
// CINEBOOK_* environment variables. Missing or malformed values fall back to
// defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		APIURL:       strings.TrimRight(getEnv("CINEBOOK_API_URL", defaultAPIURL), "/"),
		HTTPTimeout:  getDuration("CINEBOOK_HTTP_TIMEOUT", defaultHTTPTimeout),
		PaymentDelay: getDuration("CINEBOOK_PAYMENT_DELAY", defaultPaymentDelay),
		Debug:        getBool("CINEBOOK_DEBUG", false),
		LogFile:      getEnv("CINEBOOK_LOG_FILE", ""),
	}
}

func getEnv(key string, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// getDuration accepts Go durations ("2s") or a bare number of milliseconds.
func getDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if ms, err := strconv.Atoi(value); err == nil && ms >= 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}
