// Package config loads the page server settings from environment variables
// and an optional .env file through viper.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host            string
	Port            string
	Env             string // "development", "production", "testing"
	ShutdownTimeout time.Duration

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// PostgreSQL pool sizing
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Rendering and caching
	PageCacheTTL  time.Duration // L2 rendered page TTL
	PlanCacheSize int           // L1 resolved plan entries

	// Public route rate limit per client IP.
	RateLimitPerMinute int
}

// Load reads configuration from the environment, falling back to a .env
// file in the working directory and then to development defaults. Returns
// an error if critical values are unsafe in production mode.
func Load() (*Config, error) {
	return load(".env")
}

// LoadWithPath is Load with an explicit .env file path. A missing file is
// not an error.
func LoadWithPath(path string) (*Config, error) {
	return load(path)
}

func load(envFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	// Environment variables win over the file. Empty values count as unset.
	v.AutomaticEnv()
	setDefaults(v)

	cfg := bindConfig(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "30s")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "themeforge")
	v.SetDefault("POSTGRES_PASSWORD", "changeme")
	v.SetDefault("POSTGRES_DB", "themeforge")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("POSTGRES_MAX_OPEN_CONNS", 25)
	v.SetDefault("POSTGRES_MAX_IDLE_CONNS", 5)
	v.SetDefault("POSTGRES_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("VALKEY_HOST", "localhost")
	v.SetDefault("VALKEY_PORT", "6379")
	v.SetDefault("VALKEY_PASSWORD", "")
	v.SetDefault("VALKEY_DB", 0)

	v.SetDefault("PAGE_CACHE_TTL", "5m")
	v.SetDefault("PLAN_CACHE_SIZE", 1024)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 120)
}

func bindConfig(v *viper.Viper) *Config {
	return &Config{
		Host:            v.GetString("APP_HOST"),
		Port:            v.GetString("APP_PORT"),
		Env:             v.GetString("APP_ENV"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		DBHost:     v.GetString("POSTGRES_HOST"),
		DBPort:     v.GetString("POSTGRES_PORT"),
		DBUser:     v.GetString("POSTGRES_USER"),
		DBPassword: v.GetString("POSTGRES_PASSWORD"),
		DBName:     v.GetString("POSTGRES_DB"),
		DBSSLMode:  v.GetString("POSTGRES_SSLMODE"),

		DBMaxOpenConns:    v.GetInt("POSTGRES_MAX_OPEN_CONNS"),
		DBMaxIdleConns:    v.GetInt("POSTGRES_MAX_IDLE_CONNS"),
		DBConnMaxLifetime: v.GetDuration("POSTGRES_CONN_MAX_LIFETIME"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),
		ValkeyDB:       v.GetInt("VALKEY_DB"),

		PageCacheTTL:       v.GetDuration("PAGE_CACHE_TTL"),
		PlanCacheSize:      v.GetInt("PLAN_CACHE_SIZE"),
		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
	}
}

// Validate rejects unsafe or nonsensical settings.
func (c *Config) Validate() error {
	if c.Env == "production" && c.DBPassword == "changeme" {
		return fmt.Errorf("POSTGRES_PASSWORD must be set in production")
	}
	if c.PageCacheTTL <= 0 {
		return fmt.Errorf("PAGE_CACHE_TTL must be a positive duration")
	}
	if c.PlanCacheSize <= 0 {
		return fmt.Errorf("PLAN_CACHE_SIZE must be positive, got %d", c.PlanCacheSize)
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive, got %d", c.RateLimitPerMinute)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("POSTGRES_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.DBMaxIdleConns < 0 || c.DBMaxIdleConns > c.DBMaxOpenConns {
		return fmt.Errorf("POSTGRES_MAX_IDLE_CONNS must be between 0 and %d, got %d", c.DBMaxOpenConns, c.DBMaxIdleConns)
	}
	if c.ValkeyDB < 0 || c.ValkeyDB > 15 {
		return fmt.Errorf("VALKEY_DB must be between 0 and 15, got %d", c.ValkeyDB)
	}
	return nil
}

// DSN returns the PostgreSQL connection URL. Credentials are escaped, so
// passwords may contain URL delimiters. An empty DBSSLMode means "disable".
func (c *Config) DSN() string {
	sslMode := c.DBSSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
