package config

import (
	"fmt"
	"os"
	"strconv"

	"papercast/internal/logger"
)

type Config struct {
	// Sarvam AI Configuration
	SarvamAPIKey  string
	SarvamBaseURL string
	ChatModel     string
	TTSModel      string

	// Batch Digitization Configuration
	PagesPerChunk   int
	PollMaxAttempts int
	PollIntervalSec int

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		SarvamAPIKey:    getEnv("SARVAM_API_KEY", ""),
		SarvamBaseURL:   getEnv("SARVAM_BASE_URL", "https://api.sarvam.ai"),
		ChatModel:       getEnv("SARVAM_CHAT_MODEL", "sarvam-m"),
		TTSModel:        getEnv("SARVAM_TTS_MODEL", "bulbul:v3"),
		PagesPerChunk:   getEnvInt("PAGES_PER_CHUNK", 5),
		PollMaxAttempts: getEnvInt("POLL_MAX_ATTEMPTS", 300),
		PollIntervalSec: getEnvInt("POLL_INTERVAL_SECONDS", 2),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFormat:       getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:   getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:       getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.SarvamAPIKey == "" {
		return fmt.Errorf("SARVAM_API_KEY is required")
	}
	if c.PagesPerChunk < 1 {
		return fmt.Errorf("PAGES_PER_CHUNK must be at least 1, got %d", c.PagesPerChunk)
	}
	if c.PollMaxAttempts < 1 {
		return fmt.Errorf("POLL_MAX_ATTEMPTS must be at least 1, got %d", c.PollMaxAttempts)
	}
	if c.PollIntervalSec < 1 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be at least 1, got %d", c.PollIntervalSec)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
