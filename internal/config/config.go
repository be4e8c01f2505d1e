package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port               string
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string

	// Directory catalog. An empty path means Redis (when configured) or
	// the embedded seed catalog.
	DirectoryCatalogPath string
	RedisAddr            string
	RedisPassword        string
	RedisTLS             bool

	// AccountLinksURL points at a JSON document with login/signup links,
	// fetched once at startup.
	AccountLinksURL     string
	AccountLinksTimeout time.Duration

	// AppointmentRateLimit is the number of appointment requests allowed
	// per IP per minute. Zero disables the limiter.
	AppointmentRateLimit int

	// Client-side booking and search settings used by directoryctl.
	BookingAPIBaseURL    string
	SearchDebounceWindow time.Duration
	Timezone             string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		DirectoryCatalogPath: getEnv("DIRECTORY_CATALOG_PATH", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
		RedisTLS:             getEnvAsBool("REDIS_TLS", false),
		AccountLinksURL:      getEnv("ACCOUNT_LINKS_URL", ""),
		AccountLinksTimeout:  getEnvAsDuration("ACCOUNT_LINKS_TIMEOUT", 5*time.Second),
		AppointmentRateLimit: getEnvAsInt("APPOINTMENT_RATE_LIMIT", 10),
		BookingAPIBaseURL:    getEnv("BOOKING_API_BASE_URL", "http://localhost:8080"),
		SearchDebounceWindow: getEnvAsDuration("SEARCH_DEBOUNCE_WINDOW", 300*time.Millisecond),
		Timezone:             getEnv("TIMEZONE", "Asia/Manila"),
	}
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Location resolves Timezone, falling back to UTC when unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
