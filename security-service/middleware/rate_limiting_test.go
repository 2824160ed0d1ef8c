package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxRequests:   3,
		TimeWindow:    time.Minute,
		BlockDuration: time.Minute,
	}
}

func TestIsAllowedBlocksAfterMax(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := testConfig()

	for i := 0; i < config.MaxRequests; i++ {
		assert.True(t, limiter.isAllowed("10.0.0.1", config))
	}

	// The request over the limit engages the block and is refused.
	assert.False(t, limiter.isAllowed("10.0.0.1", config))
	assert.False(t, limiter.isAllowed("10.0.0.1", config))
}

func TestIsAllowedKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := testConfig()

	for i := 0; i < config.MaxRequests+1; i++ {
		limiter.isAllowed("10.0.0.1", config)
	}

	assert.False(t, limiter.isAllowed("10.0.0.1", config))
	assert.True(t, limiter.isAllowed("10.0.0.2", config))
	assert.True(t, limiter.isAllowed("authenticate:10.0.0.1", config))
}

func TestIsAllowedUnblocksAfterBlockDuration(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := testConfig()

	for i := 0; i < config.MaxRequests+1; i++ {
		limiter.isAllowed("10.0.0.1", config)
	}
	assert.False(t, limiter.isAllowed("10.0.0.1", config))

	limiter.mutex.Lock()
	limiter.store["10.0.0.1"].BlockUntil = time.Now().Add(-time.Second)
	limiter.mutex.Unlock()

	assert.True(t, limiter.isAllowed("10.0.0.1", config))
}
