package cache

import (
	"context"
	"time"
)

// WithRetry runs op, retrying only transient store errors (see IsTransient)
// with exponential backoff: delay = baseDelay * 2^attempt. Permanent errors
// are returned immediately. After maxRetries retries are exhausted, the last
// error is returned.
func WithRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := baseDelay * (1 << (attempt - 1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsTransient(lastErr) {
			return lastErr
		}
	}
	return lastErr
}
