package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mockupstudio/server/internal/port/outbound"
)

// rateLimiter implements outbound.RateLimiterPort for single-instance
// deployments without Redis.
type rateLimiter struct {
	mu   sync.Mutex
	hits map[string][]time.Time
	now  func() time.Time
}

// NewRateLimiter creates a process-local sliding window rate limiter.
func NewRateLimiter() outbound.RateLimiterPort {
	return &rateLimiter{hits: make(map[string][]time.Time), now: time.Now}
}

func (r *rateLimiter) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	hits := r.prune(key, now, window)
	if len(hits) >= limit {
		return false, nil
	}
	r.hits[key] = append(hits, now)
	return true, nil
}

func (r *rateLimiter) GetRemaining(_ context.Context, key string, limit int, window time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return max(limit-len(r.prune(key, r.now(), window)), 0), nil
}

func (r *rateLimiter) prune(key string, now time.Time, window time.Duration) []time.Time {
	hits := r.hits[key]
	cutoff := now.Add(-window)
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	hits = hits[i:]
	if len(hits) == 0 {
		delete(r.hits, key)
		return nil
	}
	r.hits[key] = hits
	return hits
}

// Compile-time check
var _ outbound.RateLimiterPort = (*rateLimiter)(nil)
