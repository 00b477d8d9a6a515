package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodSecret = "test-secret-key-that-is-long-enough-for-testing"

func clearEnv(t *testing.T) {
	for _, k := range []string{
		"ENVIRONMENT", "HTTP_ADDR", "DB_DSN", "STORE_DRIVER", "RLS_ENABLED",
		"JWT_SECRET", "JWT_ISS", "JWT_AUD", "JWT_EXPIRY", "COOKIE_SECURE",
		"ENABLE_METRICS", "LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "IMPORT_MAPPING",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, "itassets-dashboard", cfg.JWTIssuer)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.RLSEnabled)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadWithEnvironment(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("DB_DSN", "postgres://u:p@db/assets")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("RLS_ENABLED", "true")
	t.Setenv("JWT_EXPIRY", "2h")
	t.Setenv("COOKIE_SECURE", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("IMPORT_MAPPING", "configs/mapping/assets.yaml")

	cfg := Load()
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "postgres://u:p@db/assets", cfg.DatabaseDSN)
	assert.Equal(t, DriverMemory, cfg.StoreDriver)
	assert.True(t, cfg.RLSEnabled)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiry)
	assert.True(t, cfg.CookieSecure)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "configs/mapping/assets.yaml", cfg.ImportMapping)
}

func TestLoadIgnoresBadExpiry(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_EXPIRY", "soon")
	assert.Equal(t, 24*time.Hour, Load().JWTExpiry)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver: DriverPostgres,
			DatabaseDSN: "postgres://localhost/assets",
			JWTSecret:   goodSecret,
			JWTIssuer:   "test-issuer",
			JWTAudience: "test-audience",
			JWTExpiry:   time.Hour,
			LogFormat:   "text",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid config", func(*Config) {}, ""},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"secret too short", func(c *Config) { c.JWTSecret = "short" }, "at least 32"},
		{"empty issuer", func(c *Config) { c.JWTIssuer = "" }, "JWT_ISS"},
		{"empty audience", func(c *Config) { c.JWTAudience = "" }, "JWT_AUD"},
		{"zero expiry", func(c *Config) { c.JWTExpiry = 0 }, "JWT_EXPIRY"},
		{"expiry too short", func(c *Config) { c.JWTExpiry = 30 * time.Second }, "JWT_EXPIRY"},
		{"expiry too long", func(c *Config) { c.JWTExpiry = 31 * 24 * time.Hour }, "JWT_EXPIRY"},
		{"postgres without dsn", func(c *Config) { c.DatabaseDSN = "" }, "DB_DSN"},
		{"memory without dsn", func(c *Config) { c.StoreDriver = DriverMemory; c.DatabaseDSN = "" }, ""},
		{"unknown driver", func(c *Config) { c.StoreDriver = "mysql" }, "STORE_DRIVER"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "LOG_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := &Config{StoreDriver: DriverPostgres, LogFormat: "text"}
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"JWT_SECRET", "JWT_ISS", "JWT_AUD", "JWT_EXPIRY", "DB_DSN"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoadAndValidate(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", goodSecret)
	t.Setenv("DB_DSN", "postgres://localhost/assets")

	cfg, err := LoadAndValidate()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	t.Setenv("JWT_SECRET", "short")
	_, err = LoadAndValidate()
	assert.Error(t, err)
}

func TestProductionRules(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_DSN", "postgres://localhost/assets")

	err := Load().Validate()
	require.Error(t, err, "the default secret is rejected in production")
	assert.Contains(t, err.Error(), "changed in production")

	t.Setenv("JWT_SECRET", "proper-production-secret-that-is-long-enough")
	assert.NoError(t, Load().Validate())

	t.Setenv("STORE_DRIVER", "memory")
	assert.Error(t, Load().Validate())
}
