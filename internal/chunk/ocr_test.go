package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esg-tools/esgest/internal/extract"
)

func TestOCRAssembler_Basic(t *testing.T) {
	pages := map[int][]extract.PageImage{
		2: {
			{ID: "img-3", OCRText: "Carbon emissions fell by twelve percent"},
			{ID: "img-4", OCRText: "across all operating regions this year"},
		},
		1: {
			{ID: "img-1", OCRText: "Annual sustainability report for the fiscal year"},
			{ID: "img-2", OCRText: ""},
		},
	}

	a := NewOCRAssembler(DefaultOCRConfig(), nil)
	chunks := a.Assemble(pages)

	require.Len(t, chunks, 2)

	// Pages come out in ascending order.
	assert.Equal(t, 1, chunks[0].Page)
	assert.Equal(t, 2, chunks[1].Page)

	// Only non-empty fragments contribute image ids.
	assert.Equal(t, []string{"img-1"}, chunks[0].SourceImages)
	assert.Equal(t, []string{"img-3", "img-4"}, chunks[1].SourceImages)

	p2 := chunks[1]
	assert.Equal(t, TypeOCR, p2.Type)
	assert.Contains(t, p2.Text, "twelve percent across")
	assert.Equal(t, len(p2.Text), p2.CharCount)
	assert.Equal(t, len(strings.Fields(p2.Text)), p2.WordCount)
	assert.Equal(t, p2.WordCount+8, p2.TokenCount)
	assert.Greater(t, p2.ESGRelevance, 0.0)
	assert.LessOrEqual(t, p2.ESGRelevance, 1.0)
}

func TestOCRAssembler_SkipsShortPages(t *testing.T) {
	pages := map[int][]extract.PageImage{
		1: {{ID: "img-1", OCRText: "too short"}},
		2: {{ID: "img-2", OCRText: "this page has more than thirty characters of text"}},
	}

	a := NewOCRAssembler(OCRConfig{MinChars: 30}, nil)
	chunks := a.Assemble(pages)

	require.Len(t, chunks, 1)
	assert.Equal(t, 2, chunks[0].Page)
}

func TestOCRAssembler_EmptyInput(t *testing.T) {
	a := NewOCRAssembler(DefaultOCRConfig(), nil)
	assert.Empty(t, a.Assemble(nil))
	assert.Empty(t, a.Assemble(map[int][]extract.PageImage{
		1: {{ID: "img-1", OCRText: "   "}},
	}))
}

func TestCleanOCRText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapse whitespace",
			in:   "several   spaced\t\twords\n\nhere",
			want: "several spaced words here",
		},
		{
			name: "dehyphenate line wrap",
			in:   "improved sustain-\nability metrics",
			want: "improved sustainability metrics",
		},
		{
			name: "strip non printables",
			in:   "clean\x00\x07 text",
			want: "clean text",
		},
		{
			name: "keeps real hyphens",
			in:   "anti-corruption policy",
			want: "anti-corruption policy",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanOCRText(tt.in))
		})
	}
}
