package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config is the service configuration, loaded from environment variables.
type Config struct {
	// Server
	Port string `json:"port"`

	// Database
	DatabasePath string `json:"database_path"`

	// AI configuration
	GeminiAPIKey string        `json:"gemini_api_key"`
	GeminiModel  string        `json:"gemini_model"`
	MaxRPM       int           `json:"max_rpm"`
	AITimeout    time.Duration `json:"ai_timeout"`

	// Normalization
	Mode             string  `json:"mode"`
	BatchSize        int     `json:"batch_size"`
	ConfirmBatchSize int     `json:"confirm_batch_size"`
	MinGroupSize     int     `json:"min_group_size"`
	ClusterThreshold float64 `json:"cluster_threshold"`
	ConfirmThreshold float64 `json:"confirm_threshold"`
	MaxRetries       int     `json:"max_retries"`

	// Logging
	LogLevel string `json:"log_level"`
}

// Load reads configuration from environment variables with defaults and
// validates it.
func Load() (*Config, error) {
	config := &Config{
		Port: getEnv("SERVER_PORT", "8080"),

		DatabasePath: getEnv("DATABASE_PATH", "suppliers.db"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		MaxRPM:       getEnvInt("GEMINI_MAX_RPM", 30),
		AITimeout:    getEnvDuration("AI_TIMEOUT", 120*time.Second),

		Mode:             getEnv("NORMALIZATION_MODE", "hybrid"),
		BatchSize:        getEnvInt("NORMALIZATION_BATCH_SIZE", 50),
		ConfirmBatchSize: getEnvInt("NORMALIZATION_CONFIRM_BATCH_SIZE", 10),
		MinGroupSize:     getEnvInt("NORMALIZATION_MIN_GROUP_SIZE", 2),
		ClusterThreshold: getEnvFloat("NORMALIZATION_CLUSTER_THRESHOLD", 0.65),
		ConfirmThreshold: getEnvFloat("NORMALIZATION_CONFIRM_THRESHOLD", 0.85),
		MaxRetries:       getEnvInt("NORMALIZATION_MAX_RETRIES", 3),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return config, nil
}

// Validate checks field ranges and cross-field constraints.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("server port must not be empty")
	}
	if c.Mode != "hybrid" && c.Mode != "semantic" {
		return fmt.Errorf("normalization mode must be hybrid or semantic, got %q", c.Mode)
	}
	if c.Mode == "semantic" && c.GeminiAPIKey == "" {
		return fmt.Errorf("semantic mode requires GEMINI_API_KEY")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be positive, got %d", c.BatchSize)
	}
	if c.ConfirmBatchSize <= 0 {
		return fmt.Errorf("confirm batch size must be positive, got %d", c.ConfirmBatchSize)
	}
	if c.ClusterThreshold <= 0 || c.ClusterThreshold > 1 {
		return fmt.Errorf("cluster threshold must be in (0, 1], got %g", c.ClusterThreshold)
	}
	if c.ConfirmThreshold < c.ClusterThreshold || c.ConfirmThreshold > 1 {
		return fmt.Errorf("confirm threshold must be in [cluster threshold, 1], got %g", c.ConfirmThreshold)
	}
	if c.MaxRPM <= 0 {
		return fmt.Errorf("max RPM must be positive, got %d", c.MaxRPM)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
