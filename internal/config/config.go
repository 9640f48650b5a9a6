package config

import (
	"os"
	"strconv"
	"time"

	"epub-reader-engine/internal/domain"
)

// AppConfig implements the domain.Config interface
type AppConfig struct {
	ServerPort          string
	LogLevel            string
	StorePath           string
	SupabaseURL         string
	SupabaseKey         string
	LocationGranularity int
	ProgressDebounce    time.Duration
	ResizeDebounce      time.Duration
	BookmarkSettleDelay time.Duration
	DeviceIDTTL         time.Duration
}

// NewConfig creates a new configuration instance with default values
func NewConfig() domain.Config {
	return &AppConfig{
		// Cloud Run (and many PaaS) provide the listening port via PORT.
		// Keep SERVER_PORT for local/dev compatibility.
		ServerPort:          getEnvOrDefault("PORT", getEnvOrDefault("SERVER_PORT", "8080")),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		StorePath:           getEnvOrDefault("STORE_PATH", "./reader-store.sqlite"),
		SupabaseURL:         getEnvOrDefault("SUPABASE_URL", ""),
		SupabaseKey:         getEnvOrDefault("SUPABASE_ANON_KEY", ""),
		LocationGranularity: getEnvIntOrDefault("LOCATION_GRANULARITY", 1024),
		ProgressDebounce:    getEnvMillisOrDefault("PROGRESS_DEBOUNCE_MS", 500*time.Millisecond),
		ResizeDebounce:      getEnvMillisOrDefault("RESIZE_DEBOUNCE_MS", 100*time.Millisecond),
		BookmarkSettleDelay: getEnvMillisOrDefault("BOOKMARK_SETTLE_MS", 100*time.Millisecond),
		DeviceIDTTL:         getEnvMillisOrDefault("DEVICE_ID_TTL_MS", 365*24*time.Hour),
	}
}

// GetServerPort returns the server port
func (c *AppConfig) GetServerPort() string {
	return c.ServerPort
}

// GetLogLevel returns the logging level
func (c *AppConfig) GetLogLevel() string {
	return c.LogLevel
}

// GetStorePath returns the device store database path
func (c *AppConfig) GetStorePath() string {
	return c.StorePath
}

// GetSupabaseURL returns the Supabase URL
func (c *AppConfig) GetSupabaseURL() string {
	return c.SupabaseURL
}

// GetSupabaseKey returns the Supabase anon key
func (c *AppConfig) GetSupabaseKey() string {
	return c.SupabaseKey
}

// GetLocationGranularity returns the location index granularity
func (c *AppConfig) GetLocationGranularity() int {
	return c.LocationGranularity
}

// GetProgressDebounce returns the progress save quiet window
func (c *AppConfig) GetProgressDebounce() time.Duration {
	return c.ProgressDebounce
}

// GetResizeDebounce returns the resize re-layout quiet window
func (c *AppConfig) GetResizeDebounce() time.Duration {
	return c.ResizeDebounce
}

// GetBookmarkSettleDelay returns the bookmark metadata settle delay
func (c *AppConfig) GetBookmarkSettleDelay() time.Duration {
	return c.BookmarkSettleDelay
}

// GetDeviceIDTTL returns how long a generated device id stays valid
func (c *AppConfig) GetDeviceIDTTL() time.Duration {
	return c.DeviceIDTTL
}

// Helper functions for environment variable handling
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvMillisOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return time.Duration(intValue) * time.Millisecond
		}
	}
	return defaultValue
}
