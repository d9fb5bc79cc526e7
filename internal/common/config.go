// Package common provides shared utilities for KB-infodigest
package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for KB-infodigest
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Naver NaverConfig `toml:"naver"`
}

// NaverConfig holds Naver stock API configuration.
// The mobile host serves domestic (KRX) endpoints plus search; the api host
// serves world-stock endpoints.
type NaverConfig struct {
	MobileBaseURL string `toml:"mobile_base_url"`
	WorldBaseURL  string `toml:"world_base_url"`
	RateLimit     int    `toml:"rate_limit"`
	Timeout       string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *NaverConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 20 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			Naver: NaverConfig{
				MobileBaseURL: "https://m.stock.naver.com",
				WorldBaseURL:  "https://api.stock.naver.com",
				RateLimit:     5,
				Timeout:       "20s",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("KBID_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("KBID_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("KBID_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("KBID_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if base := os.Getenv("KBID_NAVER_MOBILE_BASE_URL"); base != "" {
		config.Clients.Naver.MobileBaseURL = base
	}

	if base := os.Getenv("KBID_NAVER_WORLD_BASE_URL"); base != "" {
		config.Clients.Naver.WorldBaseURL = base
	}

	if timeout := os.Getenv("KBID_NAVER_TIMEOUT"); timeout != "" {
		config.Clients.Naver.Timeout = timeout
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
