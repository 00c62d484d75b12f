package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/povarna/generative-ai-agents/research-agent/internal/models"
	"github.com/redis/go-redis/v9"
)

type SearchCache interface {
	Get(ctx context.Context, query string, n int) ([]models.WebResult, bool, error)
	Set(ctx context.Context, query string, n int, results []models.WebResult) error
}

type RedisSearchCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisSearchCache(client *redis.Client, prefix string, ttl time.Duration) *RedisSearchCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &RedisSearchCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisSearchCache) Get(ctx context.Context, query string, n int) ([]models.WebResult, bool, error) {
	data, err := c.client.Get(ctx, c.Key(query, n)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read search cache: %w", err)
	}

	var results []models.WebResult
	if err := json.Unmarshal(data, &results); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached results: %w", err)
	}
	return results, true, nil
}

func (c *RedisSearchCache) Set(ctx context.Context, query string, n int, results []models.WebResult) error {
	data, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("failed to encode search results: %w", err)
	}

	if err := c.client.Set(ctx, c.Key(query, n), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write search cache: %w", err)
	}
	return nil
}

// Key normalizes the query so trivially different spellings share an entry.
func (c *RedisSearchCache) Key(query string, n int) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", normalized, n)))
	return c.prefix + hex.EncodeToString(sum[:])
}
