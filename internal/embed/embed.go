// Package embed provides sentence embedding providers for semantic
// boundary detection. The chunker takes a Func so tests can inject a
// deterministic implementation.
package embed

import (
	"context"
	"fmt"
)

// Func embeds a batch of texts into vectors. Output order matches input
// order.
type Func func(ctx context.Context, texts []string) ([][]float32, error)

// Provider is a long-lived embedding backend. Lifecycle is owned by the
// caller, which passes provider.Embed into the chunker.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}

// RetryableError marks a transient provider failure worth retrying.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable embed error (status %d): %s", e.StatusCode, e.Message)
}
