package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/esg-tools/esgest/internal/embed"
)

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *embed.RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

const MaxRetries = 3

// WithRetry wraps an embedding function with retry-on-transient-failure
// semantics. Non-retryable errors pass through on the first attempt.
func WithRetry(fn embed.Func) embed.Func {
	return func(ctx context.Context, texts []string) ([][]float32, error) {
		var lastErr error
		for attempt := range MaxRetries {
			vectors, err := fn(ctx, texts)
			if err == nil {
				return vectors, nil
			}
			lastErr = err
			if !IsRetryable(err) {
				return nil, err
			}
			select {
			case <-time.After(Backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return nil, lastErr
	}
}
