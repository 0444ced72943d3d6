// Package config assembles service configuration from, in order of
// precedence: environment variables, a .env file, a TOML config file,
// and built-in defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port string `toml:"port"`

	// Auth
	APIKey string `toml:"-"`

	// OpenAI embeddings
	OpenAIAPIKey   string `toml:"-"`
	EmbeddingModel string `toml:"embedding_model"`
	EmbeddingDim   int    `toml:"embedding_dimension"`

	// Chunk output
	OutputRoot string `toml:"output_root"`

	// Token estimation
	TokenEstimator string  `toml:"token_estimator"` // "heuristic" or "tiktoken"
	TokenDivisor   float64 `toml:"token_divisor"`

	// Tabular chunking
	ChunkSize     int  `toml:"chunk_size"`
	MaxRows       int  `toml:"max_rows"`
	MaxTokens     int  `toml:"max_tokens"`
	IncludeHeader bool `toml:"include_header"`

	// Semantic text chunking
	SimilarityThreshold float64 `toml:"similarity_threshold"`
	MaxChunkSize        int     `toml:"max_chunk_size"`

	// OCR assembly
	MinChars int `toml:"min_chars"`

	// Worker pool
	WorkerCount       int `toml:"worker_count"`
	MaxQueueSize      int `toml:"max_queue_size"`
	MaxConcurrentLoad int `toml:"max_concurrent_load"`

	// Upload limits
	MaxUploadBytes int64 `toml:"max_upload_bytes"`

	// Job state
	JobTTL time.Duration `toml:"-"`
}

func defaults() Config {
	return Config{
		Port:                "8090",
		EmbeddingModel:      "text-embedding-3-small",
		EmbeddingDim:        1536,
		OutputRoot:          "./output",
		TokenEstimator:      "heuristic",
		TokenDivisor:        3.5,
		ChunkSize:           100,
		MaxRows:             50,
		MaxTokens:           2000,
		IncludeHeader:       true,
		SimilarityThreshold: 0.75,
		MaxChunkSize:        1200,
		MinChars:            30,
		WorkerCount:         4,
		MaxQueueSize:        100,
		MaxConcurrentLoad:   10,
		MaxUploadBytes:      52428800, // 50MB
		JobTTL:              1 * time.Hour,
	}
}

// Load builds the effective configuration. A missing config file or .env
// file is not an error.
func Load() Config {
	// .env values become environment variables unless already set.
	_ = godotenv.Load()

	cfg := defaults()

	if path := envOr("ESGEST_CONFIG", "esgest.toml"); path != "" {
		if _, err := os.Stat(path); err == nil {
			_, _ = toml.DecodeFile(path, &cfg)
		}
	}

	cfg.Port = envOr("PORT", cfg.Port)
	cfg.APIKey = os.Getenv("ESGEST_API_KEY")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.EmbeddingModel = envOr("EMBEDDING_MODEL", cfg.EmbeddingModel)
	cfg.EmbeddingDim = envInt("EMBEDDING_DIMENSION", cfg.EmbeddingDim)
	cfg.OutputRoot = envOr("OUTPUT_ROOT", cfg.OutputRoot)
	cfg.TokenEstimator = envOr("TOKEN_ESTIMATOR", cfg.TokenEstimator)
	cfg.TokenDivisor = envFloat("TOKEN_DIVISOR", cfg.TokenDivisor)
	cfg.ChunkSize = envInt("CHUNK_SIZE", cfg.ChunkSize)
	cfg.MaxRows = envInt("MAX_ROWS", cfg.MaxRows)
	cfg.MaxTokens = envInt("MAX_TOKENS", cfg.MaxTokens)
	cfg.IncludeHeader = envBool("INCLUDE_HEADER", cfg.IncludeHeader)
	cfg.SimilarityThreshold = envFloat("SIMILARITY_THRESHOLD", cfg.SimilarityThreshold)
	cfg.MaxChunkSize = envInt("MAX_CHUNK_SIZE", cfg.MaxChunkSize)
	cfg.MinChars = envInt("MIN_CHARS", cfg.MinChars)
	cfg.WorkerCount = envInt("WORKER_COUNT", cfg.WorkerCount)
	cfg.MaxQueueSize = envInt("MAX_QUEUE_SIZE", cfg.MaxQueueSize)
	cfg.MaxConcurrentLoad = envInt("MAX_CONCURRENT_LOAD", cfg.MaxConcurrentLoad)
	cfg.MaxUploadBytes = envInt64("MAX_UPLOAD_BYTES", cfg.MaxUploadBytes)
	cfg.JobTTL = envDuration("JOB_TTL", cfg.JobTTL)

	d := defaults()
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = d.ChunkSize
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = d.MaxRows
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = d.MaxTokens
	}
	if cfg.TokenDivisor <= 0 {
		cfg.TokenDivisor = d.TokenDivisor
	}
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = d.SimilarityThreshold
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = d.MaxChunkSize
	}
	if cfg.MinChars <= 0 {
		cfg.MinChars = d.MinChars
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = d.WorkerCount
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = d.MaxQueueSize
	}
	if cfg.MaxConcurrentLoad <= 0 {
		cfg.MaxConcurrentLoad = d.MaxConcurrentLoad
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = d.MaxUploadBytes
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = d.JobTTL
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("ESGEST_API_KEY is required")
	}
	switch c.TokenEstimator {
	case "heuristic", "tiktoken":
	default:
		return fmt.Errorf("unknown token_estimator %q (want heuristic or tiktoken)", c.TokenEstimator)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
