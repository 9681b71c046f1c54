// Package storage holds the durable sample store used by the batch
// persistence path and the rate-limit backends used by the HTTP layer.
// Each concern has a memory/local implementation and a networked one
// behind the same interface.
package storage

import (
	"context"
	"time"
)

// HeartRateSample is one appended heart-rate row. TS is epoch
// milliseconds UTC.
type HeartRateSample struct {
	TS    int64
	Value float64
}

// SleepEpoch is one appended sleep interval row. Timestamps are epoch
// milliseconds UTC; Stage is the coarse stage label.
type SleepEpoch struct {
	StartTS int64
	EndTS   int64
	Stage   string
}

// SampleStore appends classified samples in bulk. Implementations:
// SQLiteStore (local file) and PostgresStore (server).
type SampleStore interface {
	InsertHeartRates(ctx context.Context, samples []HeartRateSample) error
	InsertSleepEpochs(ctx context.Context, epochs []SleepEpoch) error

	Close() error
}

type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

// RateLimiter gates uploads per client key (IP).
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)

	Close() error
}
