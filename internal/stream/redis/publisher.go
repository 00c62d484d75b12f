package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	client       *redis.Client
	stream       string
	resultPrefix string
}

func NewPublisher(client *redis.Client, stream string, resultPrefix string) *Publisher {
	return &Publisher{
		client:       client,
		stream:       stream,
		resultPrefix: resultPrefix,
	}
}

// Publish queues a research job and returns it.
func (p *Publisher) Publish(ctx context.Context, req models.ResearchRequest) (models.ResearchJob, error) {
	job := models.NewResearchJob(req)
	payload, err := EncodeJob(job)
	if err != nil {
		return models.ResearchJob{}, err
	}

	if err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{PayloadField: payload},
	}).Err(); err != nil {
		return models.ResearchJob{}, fmt.Errorf("failed to publish job: %w", err)
	}
	return job, nil
}

// AwaitResult polls for the result of jobID until it appears or ctx is done.
func (p *Publisher) AwaitResult(ctx context.Context, jobID string, interval time.Duration) (models.JobResult, error) {
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		data, err := p.client.Get(ctx, ResultKey(p.resultPrefix, jobID)).Bytes()
		if err == nil {
			var result models.JobResult
			if err := json.Unmarshal(data, &result); err != nil {
				return models.JobResult{}, fmt.Errorf("failed to decode job result: %w", err)
			}
			return result, nil
		}
		if !errors.Is(err, redis.Nil) {
			return models.JobResult{}, fmt.Errorf("failed to read job result: %w", err)
		}

		select {
		case <-ctx.Done():
			return models.JobResult{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
