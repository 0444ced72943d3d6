package embed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	// DefaultModel is used when no model is configured.
	DefaultModel = "text-embedding-3-small"
	// DefaultDimension is the OpenAI-recommended default.
	DefaultDimension = 1536
	// MaxBatchSize is the API's per-request input limit.
	MaxBatchSize = 100
)

// OpenAIProvider generates embeddings via the OpenAI API.
type OpenAIProvider struct {
	client    openai.Client
	model     string
	dimension int
	stats     *Stats
}

// OpenAIOption configures an OpenAIProvider.
type OpenAIOption func(*OpenAIProvider)

// WithModel overrides the embedding model.
func WithModel(model string) OpenAIOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithDimension overrides the vector dimension.
func WithDimension(dim int) OpenAIOption {
	return func(p *OpenAIProvider) {
		if dim > 0 {
			p.dimension = dim
		}
	}
}

// WithStats attaches a latency recorder to every Embed call.
func WithStats(stats *Stats) OpenAIOption {
	return func(p *OpenAIProvider) {
		p.stats = stats
	}
}

// NewOpenAIProvider creates a provider with the given API key.
func NewOpenAIProvider(apiKey string, opts ...OpenAIOption) *OpenAIProvider {
	p := &OpenAIProvider{
		client:    openai.NewClient(option.WithAPIKey(apiKey)),
		model:     DefaultModel,
		dimension: DefaultDimension,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Embed generates embeddings for up to MaxBatchSize texts. Larger inputs
// are split into sequential batches.
func (p *OpenAIProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var out [][]float32
	for start := 0; start < len(texts); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := p.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vectors...)
	}
	return out, nil
}

func (p *OpenAIProvider) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.model),
	}
	if len(texts) == 1 {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(texts[0]),
		}
	} else {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		}
	}
	if p.dimension > 0 {
		params.Dimensions = openai.Int(int64(p.dimension))
	}

	start := time.Now()
	resp, err := p.client.Embeddings.New(ctx, params)
	if p.stats != nil {
		p.stats.Record(time.Since(start).Milliseconds())
	}
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 429 || apiErr.StatusCode >= 500) {
			return nil, &RetryableError{StatusCode: apiErr.StatusCode, Message: apiErr.Message}
		}
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(resp.Data))
	for i, data := range resp.Data {
		vector := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vector[j] = float32(v)
		}
		out[i] = vector
	}
	return out, nil
}

func (p *OpenAIProvider) ModelName() string {
	return p.model
}

func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

var _ Provider = (*OpenAIProvider)(nil)
