/**
 * Configuration for the highlight extraction worker
 *
 * Loads configuration from environment variables. Pipeline tuning knobs
 * are exposed with the pipeline's own defaults so a deployment can adjust
 * thresholds without a rebuild.
 */

package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds worker configuration
type Config struct {
	// Redis queue configuration
	RedisURL  string
	QueueName string

	// Worker configuration
	WorkerConcurrency int
	ProcessingTimeout int // milliseconds

	// Recognizer configuration
	TesseractLanguage string

	// Pipeline configuration
	HighlightColor  string
	PrimaryCoverage float64
	RelaxedCoverage float64
	ExtractWorkers  int
	EnhanceCrops    bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		RedisURL:          getEnvOrDefault("REDIS_URL", "redis://localhost:6379"),
		QueueName:         getEnvOrDefault("QUEUE_NAME", "highlight:jobs"),
		WorkerConcurrency: getEnvAsIntOrDefault("WORKER_CONCURRENCY", 4),
		ProcessingTimeout: getEnvAsIntOrDefault("PROCESSING_TIMEOUT", 60000), // 1 minute
		TesseractLanguage: getEnvOrDefault("TESSERACT_LANGUAGE", "eng"),
		HighlightColor:    getEnvOrDefault("HIGHLIGHT_COLOR", "yellow"),
		PrimaryCoverage:   getEnvAsFloatOrDefault("PRIMARY_COVERAGE", 0.10),
		RelaxedCoverage:   getEnvAsFloatOrDefault("RELAXED_COVERAGE", 0.05),
		ExtractWorkers:    getEnvAsIntOrDefault("EXTRACT_WORKERS", 4),
		EnhanceCrops:      getEnvAsBoolOrDefault("ENHANCE_CROPS", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.QueueName == "" {
		return fmt.Errorf("QUEUE_NAME is required")
	}

	if c.WorkerConcurrency < 1 || c.WorkerConcurrency > 64 {
		return fmt.Errorf("WORKER_CONCURRENCY must be between 1 and 64, got %d", c.WorkerConcurrency)
	}

	if c.PrimaryCoverage <= 0 || c.PrimaryCoverage > 1 {
		return fmt.Errorf("PRIMARY_COVERAGE must be in (0,1], got %f", c.PrimaryCoverage)
	}

	if c.RelaxedCoverage <= 0 || c.RelaxedCoverage > c.PrimaryCoverage {
		return fmt.Errorf("RELAXED_COVERAGE must be in (0,PRIMARY_COVERAGE], got %f", c.RelaxedCoverage)
	}

	return nil
}

// getEnvOrDefault gets environment variable or returns default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault gets environment variable as int or returns default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloatOrDefault gets environment variable as float64 or returns default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBoolOrDefault gets environment variable as bool or returns default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
