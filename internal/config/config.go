package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

// Config holds all configuration for the sync client
type Config struct {
	// Remote API
	BaseURL        string
	UserAgent      string
	RequestTimeout time.Duration

	// Local store
	DBPath string

	// Log settings
	LogLevel zerolog.Level
}

// DefaultConfig returns a configuration built from hardcoded defaults, overridden by
// any BLURSYNC_* environment variables that are set.
func DefaultConfig() *Config {
	logLevel, _ := zerolog.ParseLevel(DefaultLogLevel)

	return &Config{
		BaseURL:        GetEnvString(EnvPrefix+"BASE_URL", DefaultBaseURL),
		UserAgent:      GetEnvString(EnvPrefix+"USER_AGENT", DefaultUserAgent),
		RequestTimeout: GetEnvDuration(EnvPrefix+"TIMEOUT", DefaultRequestTimeoutSeconds*time.Second),
		DBPath:         GetEnvString(EnvPrefix+"DB_PATH", DefaultDBPath),
		LogLevel:       GetEnvLogLevel(EnvPrefix+"LOG_LEVEL", logLevel),
	}
}

// Validate reports the first setting that cannot be used to build a client.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base URL %q must use http or https", c.BaseURL)
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}
