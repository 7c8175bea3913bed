// Package ratelimit provides per-tenant request rate limiting.
package ratelimit

import (
	"sync"
	"time"

	"github.com/dashiq/reporting/pkg/constants"
)

// TokenBucket implements the token bucket algorithm. It is safe for
// concurrent use and refills lazily on each call.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	tokens     float64
	rate       float64 // tokens added per second
	lastRefill time.Time
}

// NewTokenBucket creates a full bucket with the given capacity and
// refill rate. Non-positive values fall back to the default budget.
func NewTokenBucket(capacity, rate float64) *TokenBucket {
	if capacity <= 0 {
		capacity = float64(constants.DefaultRateLimitPerMinute)
	}
	if rate <= 0 {
		rate = float64(constants.DefaultRateLimitPerMinute) / 60.0
	}

	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		rate:       rate,
		lastRefill: time.Now(),
	}
}

// Allow attempts to consume one token from the bucket.
func (tb *TokenBucket) Allow() bool {
	return tb.AllowN(1.0)
}

// AllowN attempts to consume n tokens from the bucket.
func (tb *TokenBucket) AllowN(n float64) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= n {
		tb.tokens -= n
		return true
	}
	return false
}

// refill adds tokens based on elapsed time. Must be called with the
// lock held.
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()

	tb.tokens += elapsed * tb.rate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}

	tb.lastRefill = now
}

// Available returns the current number of tokens.
func (tb *TokenBucket) Available() float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	return tb.tokens
}

// RetryAfter returns the duration until one token will be available.
func (tb *TokenBucket) RetryAfter() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens >= 1 {
		return 0
	}

	seconds := (1 - tb.tokens) / tb.rate
	return time.Duration(seconds * float64(time.Second))
}
