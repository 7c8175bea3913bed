package ratelimit

import (
	"strconv"
	"sync"
	"time"
)

// TenantLimiter maintains one token bucket per tenant. Buckets are
// created on first use and refilled at the configured per-minute rate.
type TenantLimiter struct {
	mu       sync.RWMutex
	buckets  map[string]*TokenBucket
	capacity float64
	rate     float64
}

// NewTenantLimiter creates a limiter granting perMinute requests per
// tenant with the given burst capacity.
func NewTenantLimiter(perMinute, burst int) *TenantLimiter {
	if burst <= 0 {
		burst = perMinute
	}
	return &TenantLimiter{
		buckets:  make(map[string]*TokenBucket),
		capacity: float64(burst),
		rate:     float64(perMinute) / 60.0,
	}
}

// Allow reports whether the tenant may make another request now.
func (l *TenantLimiter) Allow(tenantID int64) bool {
	return l.bucket(tenantID).Allow()
}

// RetryAfter returns how long the tenant should wait before retrying.
func (l *TenantLimiter) RetryAfter(tenantID int64) time.Duration {
	return l.bucket(tenantID).RetryAfter()
}

func (l *TenantLimiter) bucket(tenantID int64) *TokenBucket {
	key := strconv.FormatInt(tenantID, 10)

	l.mu.RLock()
	b, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[key]; ok {
		return b
	}
	b = NewTokenBucket(l.capacity, l.rate)
	l.buckets[key] = b
	return b
}
