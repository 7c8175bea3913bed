package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketAllowsUpToCapacity(t *testing.T) {
	tb := NewTokenBucket(3, 0.001)

	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.True(t, tb.Allow())
	assert.False(t, tb.Allow())
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(1, 1000)

	assert.True(t, tb.Allow())
	time.Sleep(10 * time.Millisecond)
	assert.True(t, tb.Allow())
}

func TestTokenBucketDefaults(t *testing.T) {
	tb := NewTokenBucket(0, 0)

	assert.InDelta(t, 300, tb.Available(), 1)
}

func TestTokenBucketRetryAfter(t *testing.T) {
	tb := NewTokenBucket(1, 10)

	assert.Equal(t, time.Duration(0), tb.RetryAfter())

	tb.Allow()
	wait := tb.RetryAfter()
	assert.Greater(t, wait, time.Duration(0))
	assert.LessOrEqual(t, wait, 150*time.Millisecond)
}

func TestTenantLimiterIsolatesTenants(t *testing.T) {
	l := NewTenantLimiter(60, 1)

	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))

	// A different tenant gets its own bucket.
	assert.True(t, l.Allow(2))
}

func TestTenantLimiterBurstDefaultsToRate(t *testing.T) {
	l := NewTenantLimiter(5, 0)

	for i := 0; i < 5; i++ {
		assert.True(t, l.Allow(9))
	}
	assert.False(t, l.Allow(9))
}
