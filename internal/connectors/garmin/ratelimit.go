package garmin

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"

	// MaxRetryAfter caps how long a single 429 response can stall an upload.
	MaxRetryAfter = 2 * time.Minute
)

// RateLimiter throttles uploads to the configured per-minute rate.
type RateLimiter struct {
	bucket *rate.Limiter
}

// NewRateLimiter creates a limiter allowing perMinute uploads per minute.
// A non-positive rate disables throttling.
func NewRateLimiter(perMinute int) *RateLimiter {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(perMinute))
	}
	return &RateLimiter{bucket: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next upload may start.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// CheckRateLimit returns a RateLimitError if resp is a 429, nil otherwise.
func (r *RateLimiter) CheckRateLimit(resp *http.Response) error {
	if resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return nil
	}

	wait := RetryDelay
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if d, ok := ParseRetryAfter(retryAfter); ok {
			wait = d
		}
	}
	if wait > MaxRetryAfter {
		wait = MaxRetryAfter
	}
	return &RateLimitError{RetryAfter: wait}
}

// Backoff waits for the duration a RateLimitError asks for.
func (r *RateLimiter) Backoff(ctx context.Context, err *RateLimitError) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(err.RetryAfter):
		return nil
	}
}
