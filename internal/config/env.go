package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GetEnvString retrieves a string from environment variables or returns the default value.
// Surrounding whitespace is trimmed; a variable holding only whitespace counts as unset.
func GetEnvString(key, defaultValue string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}
	return value
}

// GetEnvDuration retrieves a duration from environment variables or returns the default value.
// Values with a unit suffix ("45s", "2m") are parsed with time.ParseDuration,
// bare integers are read as seconds.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := GetEnvString(key, "")
	if valStr == "" {
		return defaultValue
	}

	if secs, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	val, err := time.ParseDuration(valStr)
	if err != nil {
		return defaultValue
	}
	return val
}

// GetEnvLogLevel retrieves a log level from environment variables or returns the default value.
func GetEnvLogLevel(key string, defaultValue zerolog.Level) zerolog.Level {
	valStr := GetEnvString(key, "")
	if valStr == "" {
		return defaultValue
	}
	return ParseLogLevel(valStr, defaultValue)
}

// ParseLogLevel parses a level name, logging a warning and returning defaultValue
// when the name is not a zerolog level.
func ParseLogLevel(value string, defaultValue zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		log.Warn().Err(err).Str("value", value).Str("default", defaultValue.String()).Msg("Invalid log level, using default")
		return defaultValue
	}
	return level
}
