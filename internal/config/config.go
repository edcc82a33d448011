package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"ardash/internal/logger"
)

type Config struct {
	// Backend Configuration
	APIURL      string
	HTTPTimeout time.Duration

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnv("ARDASH_HTTP_TIMEOUT", "0s"))
	if err != nil {
		return nil, fmt.Errorf("ARDASH_HTTP_TIMEOUT is not a duration: %w", err)
	}

	config := &Config{
		APIURL:        getEnv("ARDASH_API_URL", "http://localhost:5000"),
		HTTPTimeout:   timeout,
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "console"),
		LogTimeFormat: getEnv("LOG_TIME_FORMAT", time.RFC3339),
		LogOutput:     getEnv("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Default returns the configuration used when the environment cannot be loaded.
func Default() *Config {
	return &Config{
		APIURL:        "http://localhost:5000",
		LogLevel:      "info",
		LogFormat:     "console",
		LogTimeFormat: time.RFC3339,
		LogOutput:     "stderr",
	}
}

// Validate checks the backend settings. It is re-run after flag overrides.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("ARDASH_API_URL is required")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("ARDASH_API_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("ARDASH_API_URL must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("ARDASH_API_URL must include a host")
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("ARDASH_HTTP_TIMEOUT must not be negative")
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
