package domain

import "time"

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetStorePath() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetLocationGranularity() int
	GetProgressDebounce() time.Duration
	GetResizeDebounce() time.Duration
	GetBookmarkSettleDelay() time.Duration
	GetDeviceIDTTL() time.Duration
}
