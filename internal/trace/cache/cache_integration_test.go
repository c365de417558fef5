//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"agrotrace/internal/trace/cache"
	"agrotrace/internal/trace/models"
	"agrotrace/pkg/platform/sentinel"
	"agrotrace/pkg/testutil/containers"
)

type RedisTraceCacheSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisTraceCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisTraceCacheSuite))
}

func (s *RedisTraceCacheSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisTraceCacheSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisTraceCacheSuite) TestRoundTrip() {
	ctx := context.Background()
	c := cache.NewRedisTraceCache(s.redis.Client, time.Minute)

	record := &models.TraceRecord{
		TraceKey: "BATCH-1",
		Timeline: []models.Milestone{{Stage: "harvest", Timestamp: time.Now().UTC().Truncate(time.Second)}},
		Score:    40,
	}
	s.Require().NoError(c.Set(ctx, "BATCH-1", record))

	got, err := c.Get(ctx, "BATCH-1")
	s.Require().NoError(err)
	s.Equal(record.TraceKey, got.TraceKey)
	s.Equal(record.Score, got.Score)
	s.Require().Len(got.Timeline, 1)
	s.Equal("harvest", got.Timeline[0].Stage)
}

func (s *RedisTraceCacheSuite) TestMiss() {
	c := cache.NewRedisTraceCache(s.redis.Client, time.Minute)
	_, err := c.Get(context.Background(), "BATCH-404")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *RedisTraceCacheSuite) TestTTLExpiry() {
	ctx := context.Background()
	c := cache.NewRedisTraceCache(s.redis.Client, time.Second)

	s.Require().NoError(c.Set(ctx, "BATCH-1", &models.TraceRecord{TraceKey: "BATCH-1", Score: 20}))
	time.Sleep(1500 * time.Millisecond)

	_, err := c.Get(ctx, "BATCH-1")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
