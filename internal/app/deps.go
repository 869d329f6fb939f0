package app

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"

	"llm-pages/internal/config"
	"llm-pages/internal/embeddings"
	"llm-pages/internal/imagegen"
	"llm-pages/internal/llm"
	"llm-pages/internal/logger"
	"llm-pages/internal/session"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	LLM      llm.Client
	Embedder embeddings.Embedder
	Sessions session.Store
	Images   imagegen.Generator
}

// Close releases backend connections.
func (d Deps) Close() error {
	if d.Sessions == nil {
		return nil
	}
	return d.Sessions.Close()
}

// Build loads env, config, and shared components for service.
func Build(service string) (Deps, error) {
	envErr := godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, service)
	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn("failed to load .env", "err", envErr)
	}

	llmClient, err := buildLLM(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize LLM: %w", err)
	}
	embedder, err := buildEmbedder(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	sessions, err := buildSessions(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize sessions: %w", err)
	}
	return Deps{
		Config:   cfg,
		Log:      log,
		LLM:      llmClient,
		Embedder: embedder,
		Sessions: sessions,
		Images:   buildImages(cfg, log),
	}, nil
}

func buildLLM(cfg config.Config, log *slog.Logger) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		client, err := llm.NewOpenAIClient(cfg.OpenAIKey, openai.ChatModel(cfg.LLMModel), cfg.LLMTemperature,
			llm.ClientOptions(cfg.OpenAIKey, cfg.OpenAIBaseURL)...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI client: %w", err)
		}
		log.Info("using OpenAI LLM client", "model", client.Model())
		return client, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

func buildEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel), cfg.EmbedBatchSize,
			llm.ClientOptions(cfg.OpenAIKey, cfg.OpenAIBaseURL)...)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", embedder.Model(), "batch_size", cfg.EmbedBatchSize)
		return embedder, nil
	default:
		return nil, fmt.Errorf("invalid LLM_PROVIDER: %s (valid option: openai)", cfg.LLMProvider)
	}
}

// buildSessions fails when Redis was requested but is unreachable: replicas
// falling back to private memory would each see a different index.
func buildSessions(cfg config.Config, log *slog.Logger) (session.Store, error) {
	ttl := time.Duration(cfg.SessionTTL) * time.Second
	switch cfg.SessionProvider {
	case "memory", "":
		log.Info("using in-memory session store", "ttl", ttl.String())
		return session.NewMemoryStore(ttl), nil
	case "redis":
		st, err := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, ttl)
		if err != nil {
			return nil, fmt.Errorf("SESSION_PROVIDER=redis but %s is unreachable: %w", cfg.RedisAddr, err)
		}
		log.Info("using Redis session store", "addr", cfg.RedisAddr, "ttl", ttl.String())
		return st, nil
	default:
		return nil, fmt.Errorf("invalid SESSION_PROVIDER: %s (valid options: memory, redis)", cfg.SessionProvider)
	}
}

func buildImages(cfg config.Config, log *slog.Logger) imagegen.Generator {
	log.Info("using Stability image client", "host", cfg.StabilityHost, "engine", cfg.StabilityEngine)
	return imagegen.NewStabilityClient(cfg.StabilityHost, cfg.StabilityEngine)
}
