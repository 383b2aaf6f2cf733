package engine

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// RetryPolicy defines the retry behavior for storage operations.
type RetryPolicy struct {
	// Attempts is the number of retries after the first try.
	Attempts int

	// BaseBackoff is the delay before the first retry.
	BaseBackoff time.Duration

	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration

	// Retryable decides whether an error is worth retrying. Nil retries
	// everything.
	Retryable func(error) bool
}

// Do runs operation, retrying with exponential backoff and jitter until it
// succeeds, the retry budget is exhausted, or the context is cancelled.
func (p RetryPolicy) Do(ctx context.Context, operation func() error) error {
	var lastErr error

	for attempt := 0; attempt <= p.Attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = operation()
		if lastErr == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.Attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff(attempt)):
		}
	}

	return fmt.Errorf("operation failed after %d retries: %w", p.Attempts, lastErr)
}

// backoff computes the delay for a retry attempt: exponential with ±20%
// jitter, capped at MaxBackoff.
func (p RetryPolicy) backoff(attempt int) time.Duration {
	base := float64(p.BaseBackoff) * float64(int64(1)<<uint(attempt))
	jitter := (rand.Float64() * 0.4) - 0.2
	d := time.Duration(base * (1 + jitter))
	if d > p.MaxBackoff {
		d = p.MaxBackoff
	}
	return d
}
