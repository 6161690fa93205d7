package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Weather  WeatherConfig
	Auth     AuthConfig
	Importer ImporterConfig
}

// DBType represents database type
type DBType string

const (
	DBTypePostgreSQL DBType = "postgres"
	DBTypeMemory     DBType = "memory"
)

// DBConfig holds database configuration
type DBConfig struct {
	Type     DBType
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// WeatherConfig holds Open-Meteo endpoints and outbound call limits
type WeatherConfig struct {
	GeocodingURL string
	ForecastURL  string
	ArchiveURL   string
	Timeout      time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	// Consecutive failures before an endpoint's breaker opens, and how
	// long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// AuthConfig holds session settings
type AuthConfig struct {
	SessionTTL    time.Duration
	SweepInterval time.Duration
}

// ImporterConfig holds settings for bulk weather request import
type ImporterConfig struct {
	BatchSize int
}

// DSN returns the database connection string
func (c DBConfig) DSN() string {
	if c.Type == DBTypeMemory {
		// SQLite in-memory database
		if c.Name != "" && c.Name != "weather" {
			return fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=on", c.Name)
		}
		return "file::memory:?cache=shared&_foreign_keys=on"
	}
	// PostgreSQL connection string
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}

// IsMemory returns true if using in-memory database
func (c DBConfig) IsMemory() bool {
	return c.Type == DBTypeMemory
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbType := DBType(getEnv("DB_TYPE", "memory"))
	if dbType != DBTypePostgreSQL && dbType != DBTypeMemory {
		dbType = DBTypeMemory
	}

	config := &Config{
		DB: DBConfig{
			Type:     dbType,
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "weather"),
			Password: getEnv("DB_PASSWORD", "weather_password"),
			Name:     getEnv("DB_NAME", "weather"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnv("APP_PORT", "8080"),
		},
		Weather: WeatherConfig{
			GeocodingURL:    getEnv("OPEN_METEO_GEOCODING_URL", "https://geocoding-api.open-meteo.com/v1/search"),
			ForecastURL:     getEnv("OPEN_METEO_FORECAST_URL", "https://api.open-meteo.com/v1/forecast"),
			ArchiveURL:      getEnv("OPEN_METEO_ARCHIVE_URL", "https://archive-api.open-meteo.com/v1/archive"),
			Timeout:         getEnvAsDuration("WEATHER_HTTP_TIMEOUT", 10*time.Second),
			RateLimitRPS:    getEnvAsFloat("WEATHER_RATE_LIMIT_RPS", 10),
			RateLimitBurst:  getEnvAsInt("WEATHER_RATE_LIMIT_BURST", 10),
			BreakerFailures: uint32(getEnvAsInt("WEATHER_BREAKER_FAILURES", 5)),
			BreakerTimeout:  getEnvAsDuration("WEATHER_BREAKER_TIMEOUT", 30*time.Second),
		},
		Auth: AuthConfig{
			SessionTTL:    getEnvAsDuration("AUTH_SESSION_TTL", 24*time.Hour),
			SweepInterval: getEnvAsDuration("AUTH_SWEEP_INTERVAL", time.Hour),
		},
		Importer: ImporterConfig{
			BatchSize: getEnvAsInt("IMPORT_BATCH_SIZE", 100),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
