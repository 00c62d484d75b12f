package setup

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/research-agent/internal/agent"
	"github.com/povarna/generative-ai-agents/research-agent/internal/cache"
	"github.com/povarna/generative-ai-agents/research-agent/internal/chunker"
	"github.com/povarna/generative-ai-agents/research-agent/internal/config"
	"github.com/povarna/generative-ai-agents/research-agent/internal/database"
	"github.com/povarna/generative-ai-agents/research-agent/internal/embedding"
	"github.com/povarna/generative-ai-agents/research-agent/internal/guardrails"
	"github.com/povarna/generative-ai-agents/research-agent/internal/ingestion"
	"github.com/povarna/generative-ai-agents/research-agent/internal/llm"
	"github.com/povarna/generative-ai-agents/research-agent/internal/llm/bedrock"
	"github.com/povarna/generative-ai-agents/research-agent/internal/llm/gpt"
	"github.com/povarna/generative-ai-agents/research-agent/internal/rag"
	redisconn "github.com/povarna/generative-ai-agents/research-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore/postgres"
	"github.com/povarna/generative-ai-agents/research-agent/internal/vectorstore/sqlite"
	"github.com/povarna/generative-ai-agents/research-agent/internal/websearch"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Pipeline   *agent.Pipeline
	RAG        *rag.Service
	Ingestion  *ingestion.Pipeline
	Guardrails *guardrails.Guardrails
	Searcher   websearch.Searcher
	Redis      *redis.Client
	Logger     *zerolog.Logger

	closers []func() error
}

// Wire builds the full research stack: model client, retrieval, web search
// and the two-stage pipeline.
func Wire(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	llmClient, err := createLLMClient(ctx, cfg.LLM.Provider, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	deps, err := WireIngestion(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var validatorClient llm.LLMClient
	if cfg.Safety.LLMValidation {
		validatorClient = llmClient
	}
	deps.Guardrails = guardrails.NewGuardrails(validatorClient, cfg.Safety.MaxPromptTokens, logger)

	searcher, err := deps.createSearcher(ctx, cfg, logger)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Searcher = searcher

	opts := llm.ModelOptions{
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		Retry:       !cfg.LLM.DisableRetry,
	}

	researchAgent := agent.NewResearchAgent(searcher, deps.RAG, llmClient, deps.Guardrails, opts, logger)
	summaryAgent := agent.NewSummaryAgent(llmClient, deps.Guardrails, opts, logger)
	deps.Pipeline = agent.NewPipeline(researchAgent, summaryAgent, logger)

	return deps, nil
}

// WireIngestion builds only the retrieval side, for binaries that never call
// the model.
func WireIngestion(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: logger}

	embedder, err := createEmbedder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := deps.createStore(ctx, cfg, logger)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create vector store: %w", err)
	}

	deps.RAG = rag.NewService(store, embedder, chunker.NewChunker(cfg.Chunker.Size, cfg.Chunker.Overlap), logger)
	deps.Ingestion = ingestion.NewPipeline(ingestion.NewParser(), deps.RAG, logger)

	logger.Info().
		Str("vector_store", cfg.VectorStore.Type).
		Str("embedder", cfg.Embedder.Provider).
		Bool("rag_configured", deps.RAG.Configured()).
		Msg("Retrieval wired")

	return deps, nil
}

// Close releases the store and Redis connections in reverse creation order.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil && d.Logger != nil {
			d.Logger.Warn().Err(err).Msg("Failed to close dependency")
		}
	}
	d.closers = nil
}

func createLLMClient(ctx context.Context, provider string, cfg *config.Config) (llm.LLMClient, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.LLM.AWSRegion, cfg.LLM.ClaudeModelID)
	case "openai":
		return gpt.NewClient(cfg.LLM.OpenAIKey, cfg.LLM.OpenAIModelID)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

func createEmbedder(ctx context.Context, cfg *config.Config) (embedding.Embedder, error) {
	switch cfg.Embedder.Provider {
	case "bedrock":
		runtime, err := bedrock.NewRuntimeClient(ctx, cfg.LLM.AWSRegion)
		if err != nil {
			return nil, err
		}
		return embedding.NewBedrockEmbedder(runtime, cfg.Embedder.ModelID, cfg.Embedder.Dimension), nil
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.LLM.OpenAIKey, cfg.Embedder.ModelID, cfg.Embedder.Dimension)
	case "hash":
		return embedding.NewHashEmbedder(cfg.Embedder.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedder.Provider)
	}
}

// createStore returns a nil store for "none", which leaves RAG unconfigured.
func (d *Dependencies) createStore(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (vectorstore.Store, error) {
	switch cfg.VectorStore.Type {
	case "none":
		return nil, nil
	case "memory":
		return vectorstore.NewMemoryStore(), nil
	case "sqlite":
		store, err := sqlite.NewStore(cfg.VectorStore.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, store.Close)
		return store, nil
	case "postgres":
		db, err := database.NewWithBackoff(ctx, cfg.VectorStore.Postgres, cfg.VectorStore.MaxRetries)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() error {
			db.Close()
			return nil
		})

		store, err := postgres.NewStore(db.Pool, cfg.VectorStore.Table, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported vector store: %s", cfg.VectorStore.Type)
	}
}

func (d *Dependencies) createSearcher(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (websearch.Searcher, error) {
	ddg := websearch.NewDuckDuckGo(websearch.Config{
		Endpoint:  cfg.WebSearch.Endpoint,
		UserAgent: cfg.WebSearch.UserAgent,
		Timeout:   cfg.WebSearch.Timeout,
		Allowlist: websearch.Allowlist(cfg.WebSearch.Allowlist),
	}, logger)

	if !cfg.Redis.CacheEnabled {
		return ddg, nil
	}

	client, err := d.ConnectRedis(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect search cache: %w", err)
	}

	searchCache := cache.NewRedisSearchCache(client, cfg.Redis.CachePrefix, cfg.Redis.CacheTTL)
	return websearch.NewCachedSearcher(ddg, searchCache, logger), nil
}

// ConnectRedis returns the shared Redis client, connecting on first use.
func (d *Dependencies) ConnectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	if d.Redis != nil {
		return d.Redis, nil
	}

	client, err := redisconn.ConnectRedis(ctx, redisconn.Config{
		Addr:       cfg.Redis.Addr,
		Password:   cfg.Redis.Password,
		MaxRetries: 3,
	})
	if err != nil {
		return nil, err
	}

	d.Redis = client
	d.closers = append(d.closers, client.Close)
	return client, nil
}
