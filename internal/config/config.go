// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// minJWTSecretLength is the shortest HS256 signing secret accepted.
const minJWTSecretLength = 32

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"5000"`
	// AppTimezone is the zone calendar filters ("today", "this-week", ...)
	// are evaluated in. "Local" uses the host zone.
	AppTimezone string `env:"APP_TIMEZONE" envDefault:"Local"`

	// Database (PostgreSQL)
	DatabaseURL    string `env:"DATABASE_URL,required,notEmpty"`
	MigrationsAuto bool   `env:"MIGRATIONS_AUTO" envDefault:"true"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required,notEmpty"`

	// Startup connection retries for Postgres and Redis
	ConnectRetries int           `env:"CONNECT_RETRIES" envDefault:"5"`
	ConnectBackoff time.Duration `env:"CONNECT_BACKOFF" envDefault:"500ms"`

	// Sessions
	JWTSecret    string        `env:"JWT_SECRET,required,notEmpty"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"true"`
	BcryptCost   int           `env:"BCRYPT_COST" envDefault:"10"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting of /auth/register and /auth/login, per client IP
	AuthRateLimitEnabled bool `env:"AUTH_RATE_LIMIT_ENABLED" envDefault:"true"`
	AuthRateLimitPerMin  int  `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"20"`
	AuthRateLimitBurst   int  `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g., "https://example.com,https://app.example.com")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`

	// Metrics
	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Location resolves AppTimezone.
func (c *Config) Location() (*time.Location, error) {
	if c.AppTimezone == "" || strings.EqualFold(c.AppTimezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.AppTimezone, err)
	}
	return loc, nil
}

// Validate checks values that env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.JWTSecret) < minJWTSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT %d out of range", c.AppPort))
	}
	if c.AuthRateLimitEnabled && (c.AuthRateLimitPerMin <= 0 || c.AuthRateLimitBurst <= 0) {
		errs = append(errs, errors.New("AUTH_RATE_LIMIT_PER_MINUTE and AUTH_RATE_LIMIT_BURST must be positive"))
	}
	if c.ConnectRetries < 0 {
		errs = append(errs, errors.New("CONNECT_RETRIES must not be negative"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// Load parses environment variables and returns a validated Config.
// Returns an error if required variables are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// MigrateConfig is the subset of configuration the migrate command needs.
type MigrateConfig struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadMigrate parses only the variables needed to run migrations.
func LoadMigrate() (*MigrateConfig, error) {
	cfg := &MigrateConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
