package chunk

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esg-tools/esgest/internal/extract"
	"github.com/esg-tools/esgest/internal/section"
)

func testHierarchy() []section.Node {
	return section.BuildHierarchy([]section.Header{
		{Text: "Environment", Level: 1, Position: 1},
		{Text: "Emissions", Level: 2, Position: 10},
		{Text: "Governance", Level: 1, Position: 50},
	})
}

func TestEnrich_TabularPosition(t *testing.T) {
	chunks := []Chunk{{ID: "c1", Type: TypeTable, StartRow: 12, EndRow: 20, WordCount: 400}}
	meta := extract.Metadata{Title: "Annual Report", Author: "ACME", Language: "en"}

	out := Enrich(chunks, meta, testHierarchy())
	require.Len(t, out, 1)

	c := out[0]
	assert.Equal(t, "Emissions", c.Section)
	assert.Equal(t, 2, c.SectionLevel)
	assert.Equal(t, []string{"Environment", "Emissions"}, c.SectionPath)
	assert.Equal(t, "Environment > Emissions", c.SectionFullPath)

	require.NotNil(t, c.Document)
	assert.Equal(t, "Annual Report", c.Document.Title)
	assert.Equal(t, "ACME", c.Document.Author)
	assert.Equal(t, 120.0, c.ReadingTimeSec)
}

func TestEnrich_OCRAndTextPositions(t *testing.T) {
	chunks := []Chunk{
		{ID: "p", Type: TypeOCR, Page: 55, WordCount: 100},
		{ID: "t", Type: TypeText, SourcePos: 5, WordCount: 50},
	}

	out := Enrich(chunks, extract.Metadata{}, testHierarchy())
	require.Len(t, out, 2)
	assert.Equal(t, "Governance", out[0].Section)
	assert.Equal(t, "Environment", out[1].Section)
}

func TestEnrich_NoResolvablePosition(t *testing.T) {
	chunks := []Chunk{{ID: "x", Type: TypeText, WordCount: 10}}

	out := Enrich(chunks, extract.Metadata{Title: "Doc"}, testHierarchy())
	require.Len(t, out, 1)
	assert.Empty(t, out[0].SectionPath)
	require.NotNil(t, out[0].Document)
	assert.Equal(t, "Doc", out[0].Document.Title)
}

func TestEnrich_UnknownDefaults(t *testing.T) {
	out := Enrich([]Chunk{{ID: "x", Type: TypeText}}, extract.Metadata{}, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "Unknown", out[0].Document.Title)
	assert.Equal(t, "Unknown", out[0].Document.Author)
	assert.Equal(t, "Unknown", out[0].Document.Language)
}

func TestEnrich_CreationDate(t *testing.T) {
	meta := extract.Metadata{CreationDate: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)}
	out := Enrich([]Chunk{{ID: "x", Type: TypeText}}, meta, nil)
	assert.Equal(t, "2024-03-01T09:30:00Z", out[0].Document.CreationDate)
}

func TestEnrich_Idempotent(t *testing.T) {
	chunks := []Chunk{
		{ID: "a", Type: TypeTable, StartRow: 3, EndRow: 9, WordCount: 80},
		{ID: "b", Type: TypeOCR, Page: 12, WordCount: 40},
	}
	meta := extract.Metadata{Title: "Report", Author: "ACME", Language: "en"}
	h := testHierarchy()

	once := Enrich(chunks, meta, h)
	twice := Enrich(once, meta, h)

	j1, err := json.Marshal(once)
	require.NoError(t, err)
	j2, err := json.Marshal(twice)
	require.NoError(t, err)
	assert.Equal(t, string(j1), string(j2))
}

func TestEnrich_DoesNotAliasInput(t *testing.T) {
	chunks := []Chunk{{ID: "a", Type: TypeTable, StartRow: 3, WordCount: 10}}

	out := Enrich(chunks, extract.Metadata{Title: "Doc"}, testHierarchy())
	out[0].Document.Title = "mutated"
	out[0].SectionPath = append(out[0].SectionPath, "extra")

	assert.Nil(t, chunks[0].Document)
	assert.Nil(t, chunks[0].SectionPath)
}
