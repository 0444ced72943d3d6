package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLExtractor_Basic(t *testing.T) {
	input := `<html lang="en"><head><title>Annual Report</title></head><body>
<h1>Overview</h1>
<p>We reduced emissions.</p>
<h2>Details</h2>
<p>Scope 1 is down 12%.</p>
<script>ignored()</script>
</body></html>`

	e := &HTMLExtractor{}
	res, err := e.Extract(strings.NewReader(input), "report.html")
	require.NoError(t, err)

	assert.Equal(t, "Annual Report", res.Metadata.Title)
	assert.Equal(t, "en", res.Metadata.Language)

	require.Len(t, res.Headers, 2)
	assert.Equal(t, "Overview", res.Headers[0].Text)
	assert.Equal(t, 1, res.Headers[0].Level)
	assert.Equal(t, 2, res.Headers[1].Level)

	require.Len(t, res.Sections, 2)
	assert.Contains(t, res.Sections[0].Content, "We reduced emissions.")
	assert.Contains(t, res.Sections[1].Content, "Scope 1 is down 12%.")
	for _, s := range res.Sections {
		assert.NotContains(t, s.Content, "ignored()")
	}
}

func TestHTMLExtractor_NoHeadings(t *testing.T) {
	input := `<html><body><p>Only a paragraph.</p></body></html>`

	e := &HTMLExtractor{}
	res, err := e.Extract(strings.NewReader(input), "plain.html")
	require.NoError(t, err)

	assert.Empty(t, res.Headers)
	require.Len(t, res.Sections, 1)
	assert.Contains(t, res.Sections[0].Content, "Only a paragraph.")
}

func TestTextExtractor_Basic(t *testing.T) {
	input := "First paragraph.\n\nSecond paragraph."

	e := &TextExtractor{}
	res, err := e.Extract(strings.NewReader(input), "notes.txt")
	require.NoError(t, err)

	require.Len(t, res.Sections, 1)
	assert.Contains(t, res.Sections[0].Content, "First paragraph.")
	assert.Contains(t, res.Sections[0].Content, "Second paragraph.")
	assert.Equal(t, "notes", res.Metadata.Title)
}

func TestTextExtractor_Empty(t *testing.T) {
	e := &TextExtractor{}
	res, err := e.Extract(strings.NewReader(""), "empty.txt")
	require.NoError(t, err)
	assert.Empty(t, res.Sections)
}
