// Package config provides configuration for the helpdesk orchestrator.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int

	// Knowledge base
	WeaviateURL string
	DocsDir     string

	// Turn transcript store; empty disables transcript recording.
	DatabaseURL string

	// Generation provider (OpenAI)
	OpenAIAPIKey string
	OpenAIModel  string

	// Classification provider (OpenAI-compatible router endpoint, preferred
	// over the generation provider for routing; falls back permanently on
	// first failure)
	RouterBaseURL string
	RouterAPIKey  string
	RouterModel   string

	// Timeouts and pacing
	LLMTimeout     time.Duration
	StreamDelay    time.Duration
	RetryBaseDelay time.Duration

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		HTTPPort:       getEnvInt("HTTP_PORT", 8000),
		WeaviateURL:    getEnv("WEAVIATE_URL", "http://localhost:8080"),
		DocsDir:        getEnv("DOCS_DIR", "./data"),
		DatabaseURL:    getEnv("DATABASE_URL", "file:helpdesk.db?cache=shared&mode=rwc"),
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:    getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		RouterBaseURL:  getEnv("ROUTER_BASE_URL", ""),
		RouterAPIKey:   getEnv("ROUTER_API_KEY", ""),
		RouterModel:    getEnv("ROUTER_MODEL", "gpt-3.5-turbo"),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT_MS", 60000),
		StreamDelay:    getEnvDuration("STREAM_DELAY_MS", 20),
		RetryBaseDelay: getEnvDuration("RETRY_BASE_DELAY_MS", 1000),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultMs int) time.Duration {
	return time.Duration(getEnvInt(key, defaultMs)) * time.Millisecond
}
