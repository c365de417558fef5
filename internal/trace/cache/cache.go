// Package cache stores composed trace records with an explicit TTL, keyed by
// trace key. Caching is an explicit collaborator here, never ambient state:
// a cache miss simply recomputes the composition.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agrotrace/internal/trace/models"
	"agrotrace/pkg/platform/sentinel"
)

// TraceCache caches composed trace records. Get returns
// sentinel.ErrNotFound on a miss.
type TraceCache interface {
	Get(ctx context.Context, traceKey string) (*models.TraceRecord, error)
	Set(ctx context.Context, traceKey string, record *models.TraceRecord) error
}

// RedisTraceCache is the production cache implementation.
type RedisTraceCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisTraceCache(client *redis.Client, ttl time.Duration) *RedisTraceCache {
	return &RedisTraceCache{client: client, ttl: ttl}
}

func cacheKey(traceKey string) string {
	return "trace:" + traceKey
}

func (c *RedisTraceCache) Get(ctx context.Context, traceKey string) (*models.TraceRecord, error) {
	payload, err := c.client.Get(ctx, cacheKey(traceKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cached trace: %w", err)
	}
	var record models.TraceRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal cached trace: %w", err)
	}
	return &record, nil
}

func (c *RedisTraceCache) Set(ctx context.Context, traceKey string, record *models.TraceRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal trace: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(traceKey), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache trace: %w", err)
	}
	return nil
}
