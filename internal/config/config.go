package config

import (
	"os"
	"strconv"
	"time"

	"studiohub/internal/cache"
	"studiohub/internal/database"
	"studiohub/internal/external"
	"studiohub/internal/messaging"
)

// Config contains the application configuration
type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	LogFormat      string
	RequestTimeout time.Duration

	// Scheduling defaults
	BufferMinutes         int    // mandatory turnover gap between bookings of one resource
	DefaultSessionMinutes int    // class session length when the class leaves it unset
	DefaultCurrency       string

	Database database.Config
	NATS     messaging.Config
	Redis    cache.Config
	Calendar external.CalendarConfig
}

// Load reads the configuration from environment variables
func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SEC", 30)) * time.Second,

		BufferMinutes:         getEnvInt("BOOKING_BUFFER_MINUTES", 0),
		DefaultSessionMinutes: getEnvInt("DEFAULT_CLASS_SESSION_MINUTES", 90),
		DefaultCurrency:       getEnv("DEFAULT_CURRENCY", "USD"),

		Database: database.Config{
			Host:               getEnv("DB_HOST", "localhost"),
			Port:               getEnvInt("DB_PORT", 5432),
			User:               getEnv("DB_USER", "studiohub"),
			Password:           getEnv("DB_PASSWORD", "studiohub123"),
			DBName:             getEnv("DB_NAME", "studiohub"),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 50),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 10),
			ConnMaxLifetimeMin: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 5),
			ConnMaxIdleTimeMin: getEnvInt("DB_CONN_MAX_IDLE_TIME_MIN", 1),
		},

		NATS: messaging.Config{
			URL:       getEnv("NATS_URL", ""),
			ClusterID: getEnv("NATS_CLUSTER_ID", "studiohub"),
			ClientID:  getEnv("NATS_CLIENT_ID", "studiohub-api"),
		},

		Redis: cache.Config{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			LockTTL:  time.Duration(getEnvInt("RESOURCE_LOCK_TTL_SEC", 10)) * time.Second,
		},

		Calendar: external.CalendarConfig{
			BaseURL:    getEnv("CALENDAR_BASE_URL", ""),
			CalendarID: getEnv("CALENDAR_ID", ""),
			Token:      getEnv("CALENDAR_TOKEN", ""),
			Timezone:   getEnv("CALENDAR_TZ", "UTC"),
			Timeout:    time.Duration(getEnvInt("CALENDAR_TIMEOUT_SEC", 10)) * time.Second,
		},
	}
}

// Buffer returns the configured turnover gap as a duration.
func (c *Config) Buffer() time.Duration {
	return time.Duration(c.BufferMinutes) * time.Minute
}

// getEnv reads an environment variable or returns the default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an integer environment variable
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
