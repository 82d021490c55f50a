package config

import (
	"os"
	"strconv"
	"time"

	"github.com/MikeSquared-Agency/bep/internal/format"
	"github.com/MikeSquared-Agency/bep/internal/llm"
)

type Config struct {
	// Server
	Port            int
	LogLevel        string
	DatabaseURL     string
	NatsURL         string
	NatsToken       string
	LLMProvider     string
	GeminiAPIKey    string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	RecipesCSV      string

	// Client
	APIURL         string
	DocsURL        string
	RequestTimeout time.Duration
	TipMarker      string
	LogFile        string
}

func Load() Config {
	apiURL := envStr("BEP_API_URL", "http://localhost:8000")
	return Config{
		Port:            envInt("BEP_PORT", 8000),
		LogLevel:        envStr("LOG_LEVEL", "info"),
		DatabaseURL:     envStr("DATABASE_URL", ""),
		NatsURL:         envStr("NATS_URL", ""),
		NatsToken:       envStr("NATS_TOKEN", ""),
		LLMProvider:     envStr("BEP_LLM_PROVIDER", llm.ProviderGemini),
		GeminiAPIKey:    envStr("GEMINI_API_KEY", ""),
		GeminiModel:     envStr("BEP_GEMINI_MODEL", llm.DefaultGeminiModel),
		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("BEP_ANTHROPIC_MODEL", llm.DefaultAnthropicModel),
		RecipesCSV:      envStr("BEP_RECIPES_CSV", ""),
		APIURL:          apiURL,
		DocsURL:         envStr("BEP_DOCS_URL", apiURL),
		RequestTimeout:  envDuration("BEP_REQUEST_TIMEOUT", 60*time.Second),
		TipMarker:       envStr("BEP_TIP_MARKER", format.DefaultTipMarker),
		LogFile:         envStr("BEP_LOG_FILE", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// envDuration accepts Go durations ("90s") or a bare number of seconds.
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
