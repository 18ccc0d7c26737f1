package client

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter keeps request bursts under the Drive per-user quota
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter. requestsPerSecond <= 0 disables limiting.
func NewRateLimiter(requestsPerSecond int) *RateLimiter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until a request can be made
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return rl.limiter.Wait(ctx)
}
