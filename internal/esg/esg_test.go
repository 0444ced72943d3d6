package esg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreRange(t *testing.T) {
	texts := []string{
		"",
		"nothing relevant here at all",
		"carbon carbon carbon carbon carbon",
		strings.Repeat("carbon emissions climate board audit diversity ", 100),
	}
	for _, text := range texts {
		s := Score(text)
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 1.0)
	}
}

func TestScoreKeywordDensity(t *testing.T) {
	filler := strings.Repeat("lorem ipsum dolor sit amet ", 8) // 40 words
	withHits := filler + strings.Repeat("carbon ", 10)
	withoutHits := filler + strings.Repeat("pebble ", 10)

	assert.Greater(t, Score(withHits), Score(withoutHits))
	assert.Equal(t, 0.0, Score(withoutHits))
}

func TestScoreMultiWordPhrase(t *testing.T) {
	assert.Greater(t, Score("our greenhouse gas inventory grew"), 0.0)
}

func TestScoreWordBoundary(t *testing.T) {
	// "boardroom" must not match the "board" keyword.
	assert.Equal(t, 0.0, Score("the boardroom was repainted"))
	assert.Greater(t, Score("the board met twice"), 0.0)
}

func TestScoreCaseInsensitive(t *testing.T) {
	assert.Equal(t, Score("CARBON emissions"), Score("carbon emissions"))
}

func TestCategoryHits(t *testing.T) {
	hits := categoryHits("carbon emissions and board audit and diversity")
	assert.Greater(t, hits["environmental"], 0)
	assert.Greater(t, hits["governance"], 0)
	assert.Greater(t, hits["social"], 0)
}
