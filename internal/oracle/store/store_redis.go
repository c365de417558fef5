package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"agrotrace/internal/oracle/models"
	"agrotrace/pkg/platform/sentinel"
)

// RedisObservationStore persists observations in Redis with the retention
// window expressed as key TTLs: expiry is the retention policy, no reaper
// needed. A per-plot sorted set indexes observation keys by timestamp for
// the LatestBefore lookup.
type RedisObservationStore struct {
	client    *redis.Client
	retention time.Duration
}

func NewRedisObservationStore(client *redis.Client, retention time.Duration) *RedisObservationStore {
	return &RedisObservationStore{client: client, retention: retention}
}

func plotIndexKey(plotID string) string {
	return "obs:index:" + plotID
}

func (s *RedisObservationStore) Save(ctx context.Context, obs *models.OracleObservation) error {
	payload, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation: %w", err)
	}
	key := obs.Key()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, payload, s.retention)
	pipe.ZAdd(ctx, plotIndexKey(obs.PlotID), redis.Z{
		Score:  float64(obs.ObservedAt.Unix()),
		Member: key,
	})
	pipe.Expire(ctx, plotIndexKey(obs.PlotID), s.retention)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save observation: %w", err)
	}
	return nil
}

func (s *RedisObservationStore) LatestBefore(ctx context.Context, plotID string, cutoff time.Time) (*models.OracleObservation, error) {
	indexKey := plotIndexKey(plotID)
	// Walk newest-first under the cutoff; index members can outlive their
	// expired observation keys, so misses are pruned and skipped.
	keys, err := s.client.ZRevRangeByScore(ctx, indexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("query observation index: %w", err)
	}
	for _, key := range keys {
		payload, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			s.client.ZRem(ctx, indexKey, key)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("get observation %s: %w", key, err)
		}
		var obs models.OracleObservation
		if err := json.Unmarshal(payload, &obs); err != nil {
			return nil, fmt.Errorf("unmarshal observation %s: %w", key, err)
		}
		return &obs, nil
	}
	return nil, sentinel.ErrNotFound
}
