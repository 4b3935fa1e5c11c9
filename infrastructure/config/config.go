// Package config loads application configuration from environment
// variables with development defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	UserTable     string
	SessionTable  string
	FollowTable   string
	StatusTable   string
	FeedTable     string
	FolloweeIndex string // GSI on the follow table, keyed by followee

	// Queue configuration
	PostStatusQueueURL string
	UpdateFeedQueueURL string
	FanoutPageSize     int // follower-query page size in the expansion stage

	// Object storage
	AvatarBucket string

	// Lambda configuration
	IsLambda bool

	// Logging
	LogLevel string
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-west-2"),

		UserTable:     getEnv("USER_TABLE", "flock-user"),
		SessionTable:  getEnv("SESSION_TABLE", "flock-session"),
		FollowTable:   getEnv("FOLLOW_TABLE", "flock-follow"),
		StatusTable:   getEnv("STATUS_TABLE", "flock-status"),
		FeedTable:     getEnv("FEED_TABLE", "flock-feed"),
		FolloweeIndex: getEnv("FOLLOWEE_INDEX", "followee_index"),

		PostStatusQueueURL: getEnv("POST_STATUS_QUEUE_URL", ""),
		UpdateFeedQueueURL: getEnv("UPDATE_FEED_QUEUE_URL", ""),
		FanoutPageSize:     getEnvInt("FANOUT_PAGE_SIZE", 100),

		AvatarBucket: getEnv("AVATAR_BUCKET", "flock-profile-images"),

		IsLambda: os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig.
func Load() (*Config, error) {
	return LoadConfig()
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.PostStatusQueueURL == "" {
			return fmt.Errorf("POST_STATUS_QUEUE_URL is required in production")
		}
		if c.UpdateFeedQueueURL == "" {
			return fmt.Errorf("UPDATE_FEED_QUEUE_URL is required in production")
		}
		if c.AvatarBucket == "" {
			return fmt.Errorf("AVATAR_BUCKET is required in production")
		}
	}
	if c.FanoutPageSize <= 0 {
		return fmt.Errorf("FANOUT_PAGE_SIZE must be positive")
	}
	return nil
}

// IsDevelopment checks if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
