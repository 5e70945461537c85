package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DataPath string
	LogLevel string
	GinMode  string

	LLM LLMConfig

	ICPTimeout time.Duration
	AdLatency  time.Duration

	// Bootstrap credentials, seeded into the credential store when it has none.
	OpenAIAPIKey   string
	GeminiAPIKey   string
	DeveloperToken string
}

type LLMConfig struct {
	Provider    string
	OpenAIURL   string
	OpenAIModel string
	GeminiModel string
	Temperature float32
	MaxTokens   int
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	// a missing .env is fine; the environment may carry everything
	_ = godotenv.Load()

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DataPath: getEnv("DATA_PATH", "data/marketing.db"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		GinMode:  os.Getenv("GIN_MODE"),
		LLM: LLMConfig{
			Provider:    getEnv("LLM_PROVIDER", "openai"),
			OpenAIURL:   os.Getenv("OPENAI_BASE_URL"),
			OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		},
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		DeveloperToken: os.Getenv("DEVELOPER_TOKEN"),
	}

	temp, err := strconv.ParseFloat(getEnv("LLM_TEMPERATURE", "0.7"), 32)
	if err != nil {
		return nil, fmt.Errorf("invalid LLM_TEMPERATURE: %w", err)
	}
	cfg.LLM.Temperature = float32(temp)

	if cfg.LLM.MaxTokens, err = strconv.Atoi(getEnv("LLM_MAX_TOKENS", "2048")); err != nil {
		return nil, fmt.Errorf("invalid LLM_MAX_TOKENS: %w", err)
	}
	if cfg.ICPTimeout, err = time.ParseDuration(getEnv("ICP_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid ICP_TIMEOUT: %w", err)
	}
	if cfg.AdLatency, err = time.ParseDuration(getEnv("AD_LATENCY", "600ms")); err != nil {
		return nil, fmt.Errorf("invalid AD_LATENCY: %w", err)
	}

	switch cfg.LLM.Provider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
