package storage

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

//go:embed ratelimit.lua
var rateLimitLua string

var rateLimitScript = redis.NewScript(rateLimitLua)

var _ RateLimiter = (*RedisLimiter)(nil)

const rateLimitKeyPrefix = "ratelimit:"

// RedisLimiter enforces a sliding-window limit shared across replicas.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: time.Second,
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	result, err := rateLimitScript.Run(ctx, r.client,
		[]string{rateLimitKeyPrefix + key},
		r.window.Milliseconds(),
		r.limit,
		int((r.window + time.Second).Seconds()),
	).Int()
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}

	return RateLimitResult{
		Allowed:    result == 1,
		RetryAfter: r.window,
	}, nil
}

func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
