package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultJWTSecret is only acceptable outside production.
	DefaultJWTSecret = "itassets-dev-secret-change-in-production"

	minSecretLength = 32
	minExpiry       = time.Minute
	maxExpiry       = 30 * 24 * time.Hour
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Environment string
	HTTPAddr    string

	DatabaseDSN string
	StoreDriver string
	RLSEnabled  bool

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	JWTExpiry   time.Duration

	CookieSecure  bool
	EnableMetrics bool

	LogLevel  string
	LogFormat string
	LogFile   string

	ImportMapping string
}

func Load() *Config {
	config := &Config{
		Environment:   getEnv("ENVIRONMENT", "development"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:   os.Getenv("DB_DSN"),
		StoreDriver:   getEnv("STORE_DRIVER", DriverPostgres),
		RLSEnabled:    getBool("RLS_ENABLED"),
		JWTSecret:     getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTIssuer:     getEnv("JWT_ISS", "itassets-dashboard"),
		JWTAudience:   getEnv("JWT_AUD", "itassets-dashboard"),
		JWTExpiry:     24 * time.Hour,
		CookieSecure:  getBool("COOKIE_SECURE"),
		EnableMetrics: getBool("ENABLE_METRICS"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
		LogFile:       os.Getenv("LOG_FILE"),
		ImportMapping: os.Getenv("IMPORT_MAPPING"),
	}

	if expiryStr := os.Getenv("JWT_EXPIRY"); expiryStr != "" {
		if expiry, err := time.ParseDuration(expiryStr); err == nil {
			config.JWTExpiry = expiry
		}
	}

	return config
}

// LoadAndValidate reads the environment and rejects unusable settings.
func LoadAndValidate() (*Config, error) {
	cfg := Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether ENVIRONMENT=production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate collects every problem with the configuration into one error.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.JWTSecret == "":
		errs = append(errs, errors.New("JWT_SECRET is required"))
	case len(c.JWTSecret) < minSecretLength:
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d characters", minSecretLength))
	case c.IsProduction() && c.JWTSecret == DefaultJWTSecret:
		errs = append(errs, errors.New("JWT_SECRET must be changed in production"))
	}
	if c.JWTIssuer == "" {
		errs = append(errs, errors.New("JWT_ISS is required"))
	}
	if c.JWTAudience == "" {
		errs = append(errs, errors.New("JWT_AUD is required"))
	}
	if c.JWTExpiry < minExpiry || c.JWTExpiry > maxExpiry {
		errs = append(errs, fmt.Errorf("JWT_EXPIRY must be between %v and %v", minExpiry, maxExpiry))
	}

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required when STORE_DRIVER=postgres"))
		}
	case DriverMemory:
		if c.IsProduction() {
			errs = append(errs, errors.New("STORE_DRIVER=memory is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.LogFormat != "json" && c.LogFormat != "text" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.LogFormat))
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes":
		return true
	}
	return false
}
