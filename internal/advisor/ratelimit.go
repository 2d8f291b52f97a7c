package advisor

import (
	"sync"
	"time"
)

// rateLimiter bounds generative requests to a per-hour quota. It is a fixed
// window counter, not a true sliding window: the count resets once the last
// request is more than an hour old. That approximation is accepted; the quota
// exists to cap spend, not to shape traffic precisely.
type rateLimiter struct {
	mu    sync.Mutex
	quota int
	now   func() time.Time

	count int
	last  time.Time
}

func newRateLimiter(quota int, now func() time.Time) *rateLimiter {
	if now == nil {
		now = time.Now
	}
	return &rateLimiter{quota: quota, now: now}
}

// Allow checks and consumes one slot. The check and the increment happen
// under one lock so concurrent advice requests cannot bypass the quota.
func (r *rateLimiter) Allow() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if r.last.Before(now.Add(-time.Hour)) {
		r.count = 0
	}

	if r.count >= r.quota {
		return false
	}

	r.count++
	r.last = now
	return true
}
