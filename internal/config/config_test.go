package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 100, cfg.ChunkSize)
	assert.Equal(t, 50, cfg.MaxRows)
	assert.Equal(t, 2000, cfg.MaxTokens)
	assert.InDelta(t, 0.75, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, 1200, cfg.MaxChunkSize)
	assert.Equal(t, 30, cfg.MinChars)
	assert.Equal(t, "heuristic", cfg.TokenEstimator)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "250")
	t.Setenv("TOKEN_ESTIMATOR", "tiktoken")
	t.Setenv("SIMILARITY_THRESHOLD", "0.6")

	cfg := Load()

	assert.Equal(t, 250, cfg.ChunkSize)
	assert.Equal(t, "tiktoken", cfg.TokenEstimator)
	assert.InDelta(t, 0.6, cfg.SimilarityThreshold, 1e-9)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CHUNK_SIZE", "-5")
	t.Setenv("SIMILARITY_THRESHOLD", "1.5")

	cfg := Load()

	// Out-of-range values fall back to defaults.
	assert.Equal(t, 100, cfg.ChunkSize)
	assert.InDelta(t, 0.75, cfg.SimilarityThreshold, 1e-9)
}

func TestValidate(t *testing.T) {
	cfg := defaults()
	require.Error(t, cfg.Validate())

	cfg.APIKey = "secret"
	require.NoError(t, cfg.Validate())

	cfg.TokenEstimator = "guesswork"
	assert.Error(t, cfg.Validate())
}
