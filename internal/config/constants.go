package config

// Constants defining default values for application configuration
const (
	DefaultBaseURL   = "https://www.newsblur.com"
	DefaultDBPath    = "./blursync.db"
	DefaultUserAgent = "blursync/1.0"

	DefaultRequestTimeoutSeconds = 30

	DefaultLogLevel = "info"

	// EnvPrefix is prepended to every environment variable the CLI reads.
	EnvPrefix = "BLURSYNC_"
)
