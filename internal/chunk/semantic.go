package chunk

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"github.com/esg-tools/esgest/internal/embed"
	"github.com/esg-tools/esgest/internal/esg"
	"github.com/esg-tools/esgest/internal/extract"
	"github.com/esg-tools/esgest/internal/token"
)

// TextConfig controls semantic chunking of section text.
type TextConfig struct {
	SimilarityThreshold float64 // Boundary when similarity drops below this.
	MaxChunkSize        int     // Hard chunk size limit in characters.
}

// DefaultTextConfig returns sensible defaults.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		SimilarityThreshold: 0.75,
		MaxChunkSize:        1200,
	}
}

const (
	// Sentences shorter than this merge into the previous one instead of
	// standing alone.
	minSentenceChars = 10
	// A trailing chunk shorter than this merges backward.
	minTrailingChars = 50
	// A boundary needs at least this many accumulated sentences before
	// similarity alone can close a chunk.
	minGroupSentences = 3
)

// TextChunker groups section sentences into chunks, breaking where
// consecutive sentences diverge semantically or the size limit is hit.
// The embedding provider is injected; on embedding failure the chunker
// logs a warning and falls back to lexical similarity rather than
// aborting the run.
type TextChunker struct {
	cfg     TextConfig
	embedFn embed.Func
	est     token.Estimator
	logger  *slog.Logger
}

func NewTextChunker(cfg TextConfig, embedFn embed.Func, est token.Estimator, logger *slog.Logger) *TextChunker {
	if cfg.SimilarityThreshold <= 0 || cfg.SimilarityThreshold > 1 {
		cfg.SimilarityThreshold = 0.75
	}
	if cfg.MaxChunkSize <= 0 {
		cfg.MaxChunkSize = 1200
	}
	if est == nil {
		est = token.NewHeuristicEstimator(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TextChunker{cfg: cfg, embedFn: embedFn, est: est, logger: logger.With("component", "text-chunker")}
}

// Chunk processes sections in order, left-to-right within each section.
func (c *TextChunker) Chunk(ctx context.Context, sections []extract.Section) []Chunk {
	var chunks []Chunk

	prevHeading := ""
	for i, sec := range sections {
		sentences := mergeShortSentences(splitSentences(sec.Content))
		if len(sentences) == 0 {
			continue
		}

		sims := c.similarities(ctx, sentences)

		// A repeated heading continues the previous section's last chunk
		// instead of opening a duplicate titled chunk.
		carry := i > 0 && sec.Heading != "" && sec.Heading == prevHeading && len(chunks) > 0
		prevHeading = sec.Heading

		var group []string
		groupChars := 0
		flush := func() {
			if len(group) == 0 {
				return
			}
			text := strings.Join(group, " ")
			if carry {
				carry = false
				last := &chunks[len(chunks)-1]
				merged := last.Text + " " + text
				if len(merged) <= c.cfg.MaxChunkSize {
					last.setTextContent(merged, c.est.EstimateText(merged))
					last.ESGRelevance = esg.Score(merged)
					group = group[:0]
					groupChars = 0
					return
				}
			}
			ch := Chunk{
				ID:        newID(),
				Type:      TypeText,
				Section:   sec.Heading,
				SourcePos: sec.Position,
			}
			ch.setTextContent(text, c.est.EstimateText(text))
			ch.ESGRelevance = esg.Score(text)
			chunks = append(chunks, ch)
			group = group[:0]
			groupChars = 0
		}

		for j, sent := range sentences {
			group = append(group, sent)
			groupChars += len(sent)

			if groupChars >= c.cfg.MaxChunkSize {
				flush()
				continue
			}
			if j < len(sentences)-1 &&
				sims[j] < c.cfg.SimilarityThreshold &&
				len(group) >= minGroupSentences {
				flush()
			}
		}
		flush()
	}

	// A short trailing orphan merges backward.
	if n := len(chunks); n >= 2 && chunks[n-1].CharCount < minTrailingChars {
		last := chunks[n-1]
		prev := &chunks[n-2]
		merged := prev.Text + " " + last.Text
		prev.setTextContent(merged, c.est.EstimateText(merged))
		prev.ESGRelevance = esg.Score(merged)
		chunks = chunks[:n-1]
	}

	return chunks
}

// similarities returns one score per consecutive sentence pair
// (len(sentences)-1 entries). Embedding errors downgrade to the lexical
// fallback for the whole section.
func (c *TextChunker) similarities(ctx context.Context, sentences []string) []float64 {
	sims := make([]float64, 0, len(sentences)-1)
	if len(sentences) < 2 {
		return sims
	}

	if c.embedFn != nil {
		vectors, err := c.embedFn(ctx, sentences)
		if err == nil && len(vectors) == len(sentences) {
			for i := 0; i < len(sentences)-1; i++ {
				sims = append(sims, cosineSimilarity(vectors[i], vectors[i+1]))
			}
			return sims
		}
		if err != nil {
			c.logger.Warn("embedding failed, using lexical similarity", "error", err)
		}
	}

	for i := 0; i < len(sentences)-1; i++ {
		sims = append(sims, lexicalSimilarity(sentences[i], sentences[i+1]))
	}
	return sims
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by a space.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	for i, r := range text {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(text) && text[i+1] == ' ' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// mergeShortSentences folds fragments under minSentenceChars into the
// previous sentence.
func mergeShortSentences(sentences []string) []string {
	var out []string
	for _, s := range sentences {
		if len(s) < minSentenceChars && len(out) > 0 {
			out[len(out)-1] += " " + s
			continue
		}
		out = append(out, s)
	}
	return out
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// lexicalSimilarity is a word-overlap Jaccard score, used when no
// embedding provider is available.
func lexicalSimilarity(a, b string) float64 {
	wordsA := strings.Fields(strings.ToLower(a))
	wordsB := strings.Fields(strings.ToLower(b))
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}
	setB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		setB[w] = true
	}
	inter := 0
	for w := range setA {
		if setB[w] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
