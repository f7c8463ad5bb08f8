// Package guard holds lightweight request-admission checks that run before
// the engine is invoked.
package guard

import (
	"fmt"
	"sync"
	"time"
)

// Result reports whether a request is admitted.
type Result struct {
	Allowed bool
	Reason  string
}

// RateLimiter implements a sliding window rate limiter keyed by user id,
// throttling how fast one participant can submit buy-in/cash-out requests.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	limit   int
	window  time.Duration
}

// NewRateLimiter creates a rate limiter with the given limit per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string][]time.Time),
		limit:   limit,
		window:  window,
	}
}

// Check returns whether the key is within rate limits, recording the attempt
// when it is.
func (rl *RateLimiter) Check(key string) Result {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-rl.window)

	// Remove expired entries
	entries := rl.windows[key]
	valid := entries[:0]
	for _, t := range entries {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.windows[key] = valid
		return Result{
			Allowed: false,
			Reason:  fmt.Sprintf("rate limit exceeded: %d/%s", rl.limit, rl.window),
		}
	}

	rl.windows[key] = append(valid, now)
	return Result{Allowed: true}
}
