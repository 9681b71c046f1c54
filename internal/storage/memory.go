package storage

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

var _ RateLimiter = (*MemoryLimiter)(nil)

// MemoryLimiter is the in-process rate limiter, one token bucket per
// client key. Idle buckets are reaped periodically.
type MemoryLimiter struct {
	limiters  map[string]*keyLimiter
	limiterMu sync.RWMutex
	rateLimit rate.Limit
	rateBurst int

	done chan struct{}
}

type keyLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

const memoryCleanupInterval = 5 * time.Minute

func NewMemoryLimiter(ratePerSec float64, burst int) *MemoryLimiter {
	m := &MemoryLimiter{
		limiters:  make(map[string]*keyLimiter),
		rateLimit: rate.Limit(ratePerSec),
		rateBurst: burst,
		done:      make(chan struct{}),
	}

	go m.cleanupLoop()

	return m
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (RateLimitResult, error) {
	kl := m.getOrCreate(key)
	if kl.limiter.Allow() {
		return RateLimitResult{Allowed: true}, nil
	}
	return RateLimitResult{
		Allowed:    false,
		RetryAfter: time.Duration(float64(time.Second) / float64(m.rateLimit)),
	}, nil
}

func (m *MemoryLimiter) getOrCreate(key string) *keyLimiter {
	now := time.Now()

	m.limiterMu.RLock()
	kl, exists := m.limiters[key]
	m.limiterMu.RUnlock()

	if exists {
		m.limiterMu.Lock()
		kl.lastAccess = now
		m.limiterMu.Unlock()
		return kl
	}

	m.limiterMu.Lock()
	defer m.limiterMu.Unlock()

	kl, exists = m.limiters[key]
	if exists {
		kl.lastAccess = now
		return kl
	}

	kl = &keyLimiter{
		limiter:    rate.NewLimiter(m.rateLimit, m.rateBurst),
		lastAccess: now,
	}
	m.limiters[key] = kl
	return kl
}

func (m *MemoryLimiter) cleanupLoop() {
	ticker := time.NewTicker(memoryCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanup()
		case <-m.done:
			return
		}
	}
}

func (m *MemoryLimiter) cleanup() {
	threshold := time.Now().Add(-time.Hour)

	m.limiterMu.Lock()
	for key, kl := range m.limiters {
		if kl.lastAccess.Before(threshold) {
			delete(m.limiters, key)
		}
	}
	m.limiterMu.Unlock()
}

func (m *MemoryLimiter) Close() error {
	close(m.done)
	return nil
}
