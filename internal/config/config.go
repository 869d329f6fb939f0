package config

import (
	"log/slog"

	"github.com/caarlos0/env/v10"
)

// Config holds runtime configuration shared by the qa, recipe and chat services.
type Config struct {
	// Server
	Port           int    `env:"PORT" envDefault:"8080"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"120"` // seconds

	// Upload limits
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE" envDefault:"10485760"` // 10MB in bytes

	// Sessions
	SessionProvider string `env:"SESSION_PROVIDER" envDefault:"memory"` // "memory" (single replica) or "redis"
	SessionTTL      int    `env:"SESSION_TTL" envDefault:"3600"`        // idle seconds before a session's index is dropped
	RedisAddr       string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword   string `env:"REDIS_PASSWORD"`

	// LLM & Embeddings
	LLMProvider    string  `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIKey      string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL  string  `env:"OPENAI_BASE_URL"`
	LLMModel       string  `env:"LLM_MODEL" envDefault:"gpt-3.5-turbo"`
	LLMTemperature float64 `env:"LLM_TEMPERATURE" envDefault:"0"`
	EmbeddingModel string  `env:"EMBEDDING_MODEL" envDefault:"text-embedding-ada-002"`
	EmbedBatchSize int     `env:"EMBED_BATCH_SIZE" envDefault:"10"` // texts per embeddings request

	// Retrieval
	ChunkSize      int `env:"CHUNK_SIZE" envDefault:"1024"`
	ChunkOverlap   int `env:"CHUNK_OVERLAP" envDefault:"20"`
	SimilarityTopK int `env:"SIMILARITY_TOP_K" envDefault:"2"`

	// Image generation. The API key itself is read from STABILITY_KEY at call time.
	StabilityHost   string `env:"STABILITY_HOST" envDefault:"https://api.stability.ai"`
	StabilityEngine string `env:"STABILITY_ENGINE" envDefault:"stable-diffusion-xl-1024-v1-0"`
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		slog.Warn("failed to parse env; using defaults where set", "err", err)
	}
	return cfg
}
