// ABOUTME: Configuration loader for the contactctl client
// ABOUTME: Loads settings from environment variables with defaults

package config

import (
	"os"
	"strconv"
	"time"
)

// Defaults
const (
	DefaultAPIURL      = "http://localhost:8080"
	DefaultPageSize    = 8
	DefaultHTTPTimeout = 30 * time.Second
)

type Config struct {
	// Base URL of the contact manager backend (no trailing slash)
	APIURL string

	// Contacts fetched per page in the list view
	PageSize int

	// Transport timeout for every API call
	HTTPTimeout time.Duration

	// Number of concurrent page fetches during export
	ExportConcurrency int
}

// Load reads configuration from the environment
func Load() *Config {
	return &Config{
		APIURL:            getEnv("CONTACTCTL_API_URL", DefaultAPIURL),
		PageSize:          getEnvInt("CONTACTCTL_PAGE_SIZE", DefaultPageSize),
		HTTPTimeout:       getEnvDuration("CONTACTCTL_HTTP_TIMEOUT", DefaultHTTPTimeout),
		ExportConcurrency: getEnvInt("CONTACTCTL_EXPORT_CONCURRENCY", 4),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
