package stream

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	redisconn "github.com/povarna/generative-ai-agents/research-agent/internal/redis"
	"github.com/povarna/generative-ai-agents/research-agent/internal/stream/redis"
	"github.com/rs/zerolog"
)

type StreamConfig struct {
	Provider    string // only redis for now
	RedisConfig *redis.RedisStreamConfig
}

type Researcher interface {
	Run(ctx context.Context, req models.ResearchRequest) models.ResearchResponse
}

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	researcher Researcher,
	logger *zerolog.Logger,
) (StreamConsumer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := redisconn.ConnectRedis(ctx, redisconn.Config{
			Addr:       cfg.RedisConfig.RedisAddr,
			Password:   cfg.RedisConfig.RedisPassword,
			MaxRetries: 5,
		})
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, researcher, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
