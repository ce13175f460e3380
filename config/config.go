// Package config provides configuration for the survey orchestrator.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the orchestrator configuration.
type Config struct {
	// Server settings
	HTTPPort int
	APIKey   string

	// Database
	DatabaseURL string

	// LLM settings
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string
	LLMTimeout time.Duration

	// Emotion classifier settings; empty URL disables annotation.
	EmotionURL     string
	EmotionAPIKey  string
	EmotionTimeout time.Duration

	// Housekeeping
	CleanupSchedule string

	// Per-request defaults
	DefaultMaxQuestions int
	DefaultMaxHistory   int

	// Logging
	LogLevel string
}

// Load loads configuration from a .env file (if present) and environment
// variables.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		HTTPPort:            getEnvInt("HTTP_PORT", 8080),
		APIKey:              getEnv("API_KEY", ""),
		DatabaseURL:         getEnv("DATABASE_URL", "file:survey.db?cache=shared&mode=rwc"),
		LLMBaseURL:          getEnv("LLM_BASE_URL", "https://api.proxyapi.ru/openrouter"),
		LLMAPIKey:           getEnv("LLM_API_KEY", ""),
		LLMModel:            getEnv("LLM_MODEL", "deepseek/deepseek-chat-v3-0324"),
		LLMTimeout:          time.Duration(getEnvInt("LLM_TIMEOUT_MS", 120000)) * time.Millisecond,
		EmotionURL:          getEnv("EMOTION_API_URL", ""),
		EmotionAPIKey:       getEnv("EMOTION_API_KEY", ""),
		EmotionTimeout:      time.Duration(getEnvInt("EMOTION_TIMEOUT_MS", 10000)) * time.Millisecond,
		CleanupSchedule:     getEnv("CLEANUP_SCHEDULE", "@every 1h"),
		DefaultMaxQuestions: getEnvInt("DEFAULT_MAX_QUESTIONS", 8),
		DefaultMaxHistory:   getEnvInt("DEFAULT_MAX_HISTORY", 20),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
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
