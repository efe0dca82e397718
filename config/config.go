package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Provider names accepted in RAG_LLM_PROVIDER.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderGemini     = "gemini"
)

// Config holds all application settings. Values come from RAG_-prefixed
// environment variables, with a .env file honoured if present. Vendor keys
// (GEMINI_API_KEY, UNIDOC_LICENSE_KEY) keep their upstream names.
type Config struct {
	// Server
	Host string
	Port string

	// ChromaDB
	ChromaURL      string
	CollectionName string

	// Documents
	DocumentsPath  string
	WatchDocuments bool

	// RAG pipeline
	ChunkSize    int
	ChunkOverlap int
	TopKResults  int
	Temperature  float64

	// Embeddings (always Ollama)
	OllamaBaseURL  string
	EmbeddingModel string

	// LLM provider selection
	LLMProvider     string
	OllamaModel     string
	OpenRouterModel string
	OpenRouterKey   string
	OpenRouterURL   string
	GeminiModel     string
	GeminiAPIKey    string

	// PDF extraction
	UnidocLicenseKey string

	// Auth
	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from the environment. A missing .env file is not
// an error.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, relying on environment variables")
	}

	cfg := &Config{
		Host: getEnv("RAG_HOST", "0.0.0.0"),
		Port: getEnv("RAG_PORT", "8000"),

		ChromaURL:      getEnv("RAG_CHROMA_URL", "http://localhost:8000"),
		CollectionName: getEnv("RAG_COLLECTION_NAME", "college_documents"),

		DocumentsPath:  getEnv("RAG_DOCUMENTS_PATH", "./data/documents"),
		WatchDocuments: getEnvAsBool("RAG_WATCH_DOCUMENTS", false),

		ChunkSize:    getEnvAsInt("RAG_CHUNK_SIZE", 500),
		ChunkOverlap: getEnvAsInt("RAG_CHUNK_OVERLAP", 50),
		TopKResults:  getEnvAsInt("RAG_TOP_K_RESULTS", 3),
		Temperature:  getEnvAsFloat("RAG_TEMPERATURE", 0.7),

		OllamaBaseURL:  getEnv("RAG_OLLAMA_BASE_URL", "http://localhost:11434"),
		EmbeddingModel: getEnv("RAG_EMBEDDING_MODEL", "nomic-embed-text"),

		LLMProvider:     getEnv("RAG_LLM_PROVIDER", ProviderOpenRouter),
		OllamaModel:     getEnv("RAG_LLM_MODEL", "llama3"),
		OpenRouterModel: getEnv("RAG_OPENROUTER_MODEL", "meta-llama/llama-3.1-8b-instruct"),
		OpenRouterKey:   getEnv("RAG_OPENROUTER_API_KEY", ""),
		OpenRouterURL:   getEnv("RAG_OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		GeminiModel:     getEnv("RAG_GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiAPIKey:    getEnv("GEMINI_API_KEY", ""),

		UnidocLicenseKey: getEnv("UNIDOC_LICENSE_KEY", ""),

		JWTSecret: getEnv("RAG_SECRET_KEY", "change-me-in-production"),
		TokenTTL:  time.Duration(getEnvAsInt("RAG_TOKEN_TTL_MINUTES", 30)) * time.Minute,
	}

	switch cfg.LLMProvider {
	case ProviderOpenRouter:
		if cfg.OpenRouterKey == "" {
			return nil, fmt.Errorf("RAG_OPENROUTER_API_KEY is required when RAG_LLM_PROVIDER=%s", ProviderOpenRouter)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when RAG_LLM_PROVIDER=%s", ProviderGemini)
		}
	case ProviderOllama:
	default:
		return nil, fmt.Errorf("unknown RAG_LLM_PROVIDER %q (want %s, %s or %s)",
			cfg.LLMProvider, ProviderOpenRouter, ProviderOllama, ProviderGemini)
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("RAG_CHUNK_OVERLAP (%d) must be smaller than RAG_CHUNK_SIZE (%d)",
			cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg, nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
