// Package ratelimit implements token buckets for the rate-limited upstream
// APIs the pipeline calls, one bucket per endpoint key.
package ratelimit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration.
type Config struct {
	// PerMinute is the sustained request rate per key. Zero or less disables
	// throttling.
	PerMinute float64
	Burst     int
}

// Limiter manages one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	limit := rate.Inf
	if cfg.PerMinute > 0 {
		limit = rate.Limit(cfg.PerMinute / 60)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}
}

// Unlimited reports whether Wait always returns immediately.
func (l *Limiter) Unlimited() bool {
	return l == nil || l.limit == rate.Inf
}

// Wait blocks until a token is available for key or ctx is done. A nil
// Limiter never blocks.
func (l *Limiter) Wait(ctx context.Context, key string) error {
	if l.Unlimited() {
		return nil
	}
	if err := l.bucket(key).Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait %s: %w", key, err)
	}
	return nil
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[key] = b
	}
	return b
}
