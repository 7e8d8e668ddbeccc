package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/DennisSalmasz/dev-ticketing-rest/internal/core/port"
)

// SlidingWindowConfig tunes the Redis-backed attempt store.
type SlidingWindowConfig struct {
	// KeyPrefix namespaces rate-limit keys within the database.
	KeyPrefix string
	// TTL caps how long an idle window key lives. Should exceed the largest
	// window passed to TakeAttempt.
	TTL time.Duration
}

// RateLimitRepository keeps one sorted set per rate-limit key, scored by
// attempt time in nanoseconds, and implements port.RateLimitStore on top.
type RateLimitRepository struct {
	client *redis.Client
	cfg    SlidingWindowConfig
}

func NewRateLimitRepository(client *redis.Client, cfg SlidingWindowConfig) *RateLimitRepository {
	return &RateLimitRepository{client: client, cfg: cfg}
}

// TakeAttempt prunes attempts that fell out of the window, then records the
// new attempt unless the window already holds limit entries.
func (r *RateLimitRepository) TakeAttempt(ctx context.Context, key string, limit int, window time.Duration, at time.Time) (port.RateLimitDecision, error) {
	var decision port.RateLimitDecision

	if limit <= 0 || window <= 0 {
		return decision, errors.New("rate limit: limit and window must be positive")
	}

	storageKey := key
	if r.cfg.KeyPrefix != "" {
		storageKey = r.cfg.KeyPrefix + ":" + key
	}
	lowerBound := strconv.FormatInt(at.Add(-window).UnixNano(), 10)

	pipe := r.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, storageKey, "-inf", "("+lowerBound)
	countCmd := pipe.ZCard(ctx, storageKey)
	oldestCmd := pipe.ZRangeWithScores(ctx, storageKey, 0, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return decision, fmt.Errorf("rate limit: inspect window: %w", err)
	}

	decision.Count = int(countCmd.Val())
	if members := oldestCmd.Val(); len(members) > 0 {
		decision.OldestAttempt = time.Unix(0, int64(members[0].Score))
	}

	if decision.Count >= limit {
		return decision, nil
	}

	record := r.client.TxPipeline()
	record.ZAdd(ctx, storageKey, redis.Z{
		Score:  float64(at.UnixNano()),
		Member: at.UnixNano(),
	})
	if r.cfg.TTL > 0 {
		record.Expire(ctx, storageKey, r.cfg.TTL)
	}
	if _, err := record.Exec(ctx); err != nil {
		return decision, fmt.Errorf("rate limit: record attempt: %w", err)
	}

	decision.Allowed = true
	decision.Count++
	if decision.OldestAttempt.IsZero() {
		decision.OldestAttempt = at
	}
	return decision, nil
}

var _ port.RateLimitStore = (*RateLimitRepository)(nil)
