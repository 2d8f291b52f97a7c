package advisor

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterQuota(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(3, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(), "request %d within quota should be allowed", i+1)
	}
	assert.False(t, limiter.Allow(), "fourth request within the hour must be denied")
}

func TestRateLimiterResetsAfterAnHour(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	limiter := newRateLimiter(2, func() time.Time { return now })

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	now = now.Add(time.Hour + time.Minute)

	assert.True(t, limiter.Allow(), "counter should reset after the window expires")
}

func TestRateLimiterZeroQuotaDeniesEverything(t *testing.T) {
	limiter := newRateLimiter(0, time.Now)
	assert.False(t, limiter.Allow())
}

func TestRateLimiterConcurrentAccess(t *testing.T) {
	limiter := newRateLimiter(10, time.Now)

	var wg sync.WaitGroup
	allowed := make(chan bool, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- limiter.Allow()
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 10, count, "exactly the quota may pass under concurrency")
}
