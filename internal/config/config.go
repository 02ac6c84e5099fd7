package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port                int
	LogLevel            string
	DevMode             bool
	FeedTimeout         time.Duration // per-request bound on every external call
	SentimentServiceURL string
	RefreshSchedule     string // cron expression; empty disables background scans
	UniverseExtra       []string
	ConfirmWorkers      int
	InsiderLimit        int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnvAsInt("WHISPERER_PORT", 8080),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		DevMode:             getEnvAsBool("DEV_MODE", false),
		FeedTimeout:         getEnvAsDuration("FEED_TIMEOUT", 10*time.Second),
		SentimentServiceURL: getEnv("SENTIMENT_SERVICE_URL", "http://localhost:8501"),
		RefreshSchedule:     getEnv("REFRESH_SCHEDULE", ""),
		UniverseExtra:       getEnvAsList("UNIVERSE_EXTRA"),
		ConfirmWorkers:      getEnvAsInt("CONFIRM_WORKERS", 8),
		InsiderLimit:        getEnvAsInt("INSIDER_LIMIT", 10),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("WHISPERER_PORT must be a valid port, got %d", c.Port)
	}
	if c.SentimentServiceURL == "" {
		return fmt.Errorf("SENTIMENT_SERVICE_URL is required")
	}
	if c.FeedTimeout <= 0 {
		return fmt.Errorf("FEED_TIMEOUT must be positive, got %s", c.FeedTimeout)
	}
	if c.ConfirmWorkers < 1 {
		return fmt.Errorf("CONFIRM_WORKERS must be at least 1, got %d", c.ConfirmWorkers)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
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

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
