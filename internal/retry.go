package internal

import (
	"context"
	"net/http"
	"strconv"
	"time"
)

const (
	// DefaultInitialDelay is the backoff delay for the first retry.
	DefaultInitialDelay = 1 * time.Second

	// DefaultBackoffFactor is the multiplier applied per attempt.
	DefaultBackoffFactor = 2.0
)

// RetryPolicy decides whether a rate-limited response is retried and how
// long to wait between attempts. The zero value disables retries: a 429
// surfaces immediately as a RateLimitError.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the initial attempt.
	// Zero means fail fast.
	MaxRetries int

	// InitialDelay is the wait before the first retry. Defaults to 1s.
	InitialDelay time.Duration

	// BackoffFactor multiplies the delay for each subsequent retry.
	// Defaults to 2.
	BackoffFactor float64
}

// Enabled reports whether the policy retries at all.
func (p RetryPolicy) Enabled() bool {
	return p.MaxRetries > 0
}

// ShouldRetry reports whether the given attempt (0-based) should be retried.
// Only 429 responses are ever retried.
func (p RetryPolicy) ShouldRetry(statusCode, attempt int) bool {
	return statusCode == http.StatusTooManyRequests && p.Enabled() && attempt < p.MaxRetries
}

// Delay returns the exponential backoff delay for the given attempt:
// InitialDelay * BackoffFactor^attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	initial := p.InitialDelay
	if initial <= 0 {
		initial = DefaultInitialDelay
	}
	factor := p.BackoffFactor
	if factor <= 0 {
		factor = DefaultBackoffFactor
	}

	delay := float64(initial)
	for i := 0; i < attempt; i++ {
		delay *= factor
	}
	return time.Duration(delay)
}

// RetryAfter extracts the Retry-After header as a duration. Returns zero
// when the header is absent or not a positive number of seconds.
func RetryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(header, 64)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds * float64(time.Second))
}

// Sleep waits for the given duration unless the context is cancelled first.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
