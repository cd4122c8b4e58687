// Package common provides shared utilities for the terms service
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the terms service
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Client      ClientConfig  `toml:"client"`
	Logging     LoggingConfig `toml:"logging"`
	Auth        AuthConfig    `toml:"auth"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage backend configuration. Engine selects the
// backend: "badger" (embedded, default) or "surrealdb".
type StorageConfig struct {
	Engine    string `toml:"engine"`
	Path      string `toml:"path"`      // badger data directory
	Address   string `toml:"address"`   // surrealdb ws:// endpoint
	Namespace string `toml:"namespace"` // surrealdb namespace
	Database  string `toml:"database"`  // surrealdb database
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientConfig holds terms API client configuration
type ClientConfig struct {
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8081,
		},
		Storage: StorageConfig{
			Engine:    "badger",
			Path:      "data/terms",
			Address:   "ws://localhost:8000/rpc",
			Namespace: "terms",
			Database:  "terms",
			Username:  "root",
			Password:  "root",
		},
		Client: ClientConfig{
			BaseURL:   "http://localhost:8081",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TERMS_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TERMS_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TERMS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TERMS_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("TERMS_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	// Storage overrides
	if v := os.Getenv("TERMS_STORAGE_ENGINE"); v != "" {
		config.Storage.Engine = v
	}
	if v := os.Getenv("TERMS_STORAGE_ADDRESS"); v != "" {
		config.Storage.Address = v
	}
	if v := os.Getenv("TERMS_STORAGE_USERNAME"); v != "" {
		config.Storage.Username = v
	}
	if v := os.Getenv("TERMS_STORAGE_PASSWORD"); v != "" {
		config.Storage.Password = v
	}

	// Client overrides
	if v := os.Getenv("TERMS_URL"); v != "" {
		config.Client.BaseURL = v
	}
	if v := os.Getenv("TERMS_TOKEN"); v != "" {
		config.Client.Token = v
	}

	// Auth overrides
	if v := os.Getenv("TERMS_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("TERMS_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ValidateRequired returns the names of required config fields that are
// missing or still at placeholder values. Empty result means the config
// is usable.
func (c *Config) ValidateRequired() []string {
	var missing []string

	switch c.Storage.Engine {
	case "badger":
		if c.Storage.Path == "" {
			missing = append(missing, "storage.path")
		}
	case "surrealdb":
		if c.Storage.Address == "" {
			missing = append(missing, "storage.address")
		}
	default:
		missing = append(missing, "storage.engine")
	}

	if c.Auth.JWTSecret == "" || strings.Contains(c.Auth.JWTSecret, "change-in-production") {
		missing = append(missing, "auth.jwt_secret")
	}

	return missing
}
