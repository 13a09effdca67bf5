package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Table source kinds supported by the dataset package.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all application configuration
type Config struct {
	// Dataset source configuration
	Dataset DatasetConfig

	// Database configuration (used when the source is postgres)
	Database DatabaseConfig

	// Pipeline configuration
	Pipeline PipelineConfig

	// Logging configuration
	Log LogConfig
}

// DatasetConfig selects and locates the three input tables
type DatasetConfig struct {
	Source       string
	DataDir      string
	UsersGlob    string
	PostsGlob    string
	CommentsGlob string
	Strict       bool
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// PipelineConfig holds graph-building settings
type PipelineConfig struct {
	ActivityThreshold int
	OutputPath        string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Dataset: DatasetConfig{
			Source:       getEnv("SOURCE", SourceCSV),
			DataDir:      getEnv("DATA_DIR", "./data"),
			UsersGlob:    getEnv("USERS_GLOB", "users*.csv"),
			PostsGlob:    getEnv("POSTS_GLOB", "posts*.csv"),
			CommentsGlob: getEnv("COMMENTS_GLOB", "comments*.csv"),
			Strict:       getBoolEnv("STRICT", false),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "forum_dumps"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Pipeline: PipelineConfig{
			ActivityThreshold: getIntEnv("ACTIVITY_THRESHOLD", 10),
			OutputPath:        getEnv("OUTPUT_PATH", "./out/interactions.graphml"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Dataset.Source {
	case SourceCSV:
		if c.Dataset.DataDir == "" {
			return fmt.Errorf("DATA_DIR is required when SOURCE=csv")
		}
	case SourcePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required when SOURCE=postgres")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required when SOURCE=postgres")
		}
	default:
		return fmt.Errorf("unknown SOURCE %q, must be csv or postgres", c.Dataset.Source)
	}
	if c.Pipeline.ActivityThreshold < 0 {
		return fmt.Errorf("ACTIVITY_THRESHOLD must be >= 0")
	}
	if c.Pipeline.OutputPath == "" {
		return fmt.Errorf("OUTPUT_PATH is required")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
