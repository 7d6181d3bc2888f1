package config

import (
	"fmt"
	"os"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
)

// Config holds the configuration for the application.
type Config struct {
	// LLM provider selection: "openrouter" (default) or "gemini".
	LLMProvider      string
	OpenRouterAPIKey string
	OpenRouterModel  string
	GeminiAPIKey     string

	// Auth
	AuthSecretKey string

	// Server
	Port int

	// Storage
	DatabasePath string
}

const (
	defaultPort            = 8080
	defaultDatabasePath    = "data/fitness-coach.db"
	defaultOpenRouterModel = "deepseek/deepseek-chat:free"
)

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	provider := os.Getenv("LLM_PROVIDER")
	if provider == "" {
		provider = "openrouter"
	}

	openRouterKey := os.Getenv("OPENROUTER_API_KEY")
	geminiKey := os.Getenv("GEMINI_API_KEY")

	switch provider {
	case "openrouter":
		if openRouterKey == "" {
			return nil, fmt.Errorf("OPENROUTER_API_KEY environment variable not set")
		}
	case "gemini":
		if geminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected openrouter or gemini)", provider)
	}

	authSecret := os.Getenv("AUTH_SECRET_KEY")
	if authSecret == "" {
		return nil, fmt.Errorf("AUTH_SECRET_KEY environment variable not set")
	}

	model := os.Getenv("OPENROUTER_MODEL")
	if model == "" {
		model = defaultOpenRouterModel
	}

	port := defaultPort
	if portStr := os.Getenv("PORT"); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil || p <= 0 {
			return nil, fmt.Errorf("invalid PORT value %q", portStr)
		}
		port = p
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = defaultDatabasePath
	}

	return &Config{
		LLMProvider:      provider,
		OpenRouterAPIKey: openRouterKey,
		OpenRouterModel:  model,
		GeminiAPIKey:     geminiKey,
		AuthSecretKey:    authSecret,
		Port:             port,
		DatabasePath:     dbPath,
	}, nil
}
