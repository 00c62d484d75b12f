package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Researcher runs a research request to completion.
type Researcher interface {
	Run(ctx context.Context, req models.ResearchRequest) models.ResearchResponse
}

type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	resultPrefix string
	resultTTL    time.Duration
	researcher   Researcher
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *RedisStreamConfig, researcher Researcher, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		resultPrefix: cfg.ResultPrefix,
		resultTTL:    cfg.ResultTTL,
		researcher:   researcher,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// timeout, no message -> loop again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			continue
		}

		for _, s := range streams {
			for _, msg := range s.Messages {
				c.process(ctx, msg)
			}
		}
	}
}

func (c *Consumer) Stop() error {
	return c.client.Close()
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	result, ok := c.handle(ctx, msg)
	if ok {
		c.storeResult(ctx, result)
	}

	c.ack(ctx, msg.ID)
}

// handle runs the job carried by msg. It returns false when the message is
// malformed and has no job to report on.
func (c *Consumer) handle(ctx context.Context, msg redis.XMessage) (models.JobResult, bool) {
	job, err := DecodeJob(msg.ID, msg.Values)
	if err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		return models.JobResult{}, false
	}

	job.Request.SetDefaults()
	if err := job.Request.Validate(); err != nil {
		c.logger.Warn().Err(err).Str("job_id", job.ID).Msg("Rejected invalid research job")
		return models.JobResult{
			ID:          job.ID,
			Status:      models.JobStatusFailed,
			Error:       err.Error(),
			CompletedAt: time.Now().UTC(),
		}, true
	}

	response := c.researcher.Run(ctx, job.Request)

	c.logger.Info().
		Str("job_id", job.ID).
		Int("sources", len(response.Sources)).
		Msg("Research job complete")

	return models.JobResult{
		ID:          job.ID,
		Status:      models.JobStatusDone,
		Response:    &response,
		CompletedAt: time.Now().UTC(),
	}, true
}

func (c *Consumer) storeResult(ctx context.Context, result models.JobResult) {
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error().Err(err).Str("job_id", result.ID).Msg("Failed to encode job result")
		return
	}

	if err := c.client.Set(ctx, ResultKey(c.resultPrefix, result.ID), data, c.resultTTL).Err(); err != nil {
		c.logger.Error().Err(err).Str("job_id", result.ID).Msg("Failed to store job result")
	}
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
