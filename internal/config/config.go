package config

import (
	"os"
	"strconv"
	"time"

	"evodash/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Data      DataConfig
	Server    ServerConfig
	Dashboard DashboardConfig
	S3        S3Config
	LogLevel  string
}

// DataConfig holds the dataset and geometry sources
type DataConfig struct {
	Source      string // csv/xlsx path, http(s)://, s3://, postgres://, sqlite://
	GeoSource   string // optional GeoJSON world boundaries
	LoadTimeout time.Duration
	HTTPRetries int
	RetryDelay  time.Duration
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// DashboardConfig holds chart presentation settings
type DashboardConfig struct {
	DimOpacity float64
}

// S3Config holds settings for s3:// data sources
type S3Config struct {
	Region    string
	Endpoint  string
	PathStyle bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Data:      *loadDataConfig(),
		Server:    *loadServerConfig(),
		Dashboard: *loadDashboardConfig(),
		S3:        *loadS3Config(),
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Source:      os.Getenv("DATA_SOURCE"),
		GeoSource:   os.Getenv("GEO_SOURCE"),
		LoadTimeout: getEnvDurationOrDefault("LOAD_TIMEOUT", 30*time.Second),
		HTTPRetries: getEnvIntOrDefault("HTTP_RETRIES", 3),
		RetryDelay:  getEnvDurationOrDefault("HTTP_RETRY_DELAY", 500*time.Millisecond),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadDashboardConfig() *DashboardConfig {
	return &DashboardConfig{
		DimOpacity: getEnvFloatOrDefault("DIM_OPACITY", 0.3),
	}
}

func loadS3Config() *S3Config {
	return &S3Config{
		Region:    getEnvOrDefault("S3_REGION", "us-east-1"),
		Endpoint:  os.Getenv("S3_ENDPOINT"),
		PathStyle: getEnvBoolOrDefault("S3_PATH_STYLE", false),
	}
}

func validateConfig(config *Config) error {
	if config.Data.Source == "" {
		return errors.ConfigInvalid("DATA_SOURCE is required")
	}
	if config.Data.HTTPRetries < 1 {
		return errors.ConfigInvalid("HTTP_RETRIES must be at least 1")
	}
	if config.Dashboard.DimOpacity < 0 || config.Dashboard.DimOpacity > 1 {
		return errors.ConfigInvalid("DIM_OPACITY must be within [0,1]")
	}
	return nil
}

// Helper functions for environment variable parsing
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

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
