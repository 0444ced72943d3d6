package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownExtractor_HeadersAndSections(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	e := &MarkdownExtractor{}
	res, err := e.Extract(strings.NewReader(input), "doc.md")
	require.NoError(t, err)

	assert.Equal(t, "doc", res.Metadata.Title)
	assert.Equal(t, KindText, res.Kind())

	require.Len(t, res.Headers, 4)
	assert.Equal(t, "Title", res.Headers[0].Text)
	assert.Equal(t, 1, res.Headers[0].Level)
	assert.Equal(t, "Subsection A1", res.Headers[2].Text)
	assert.Equal(t, 3, res.Headers[2].Level)

	// Positions must be strictly increasing.
	for i := 1; i < len(res.Headers); i++ {
		assert.Greater(t, res.Headers[i].Position, res.Headers[i-1].Position)
	}

	require.Len(t, res.Sections, 4)
	assert.Equal(t, "Title", res.Sections[0].Heading)
	assert.Equal(t, "Intro text.", res.Sections[0].Content)
	assert.Equal(t, "Section B", res.Sections[3].Heading)
	assert.Equal(t, "Section B content.", res.Sections[3].Content)
}

func TestMarkdownExtractor_ParagraphTextNotDuplicated(t *testing.T) {
	input := "# Title\n\nIntro text.\n"

	e := &MarkdownExtractor{}
	res, err := e.Extract(strings.NewReader(input), "doc.md")
	require.NoError(t, err)

	require.Len(t, res.Sections, 1)
	assert.Equal(t, "Intro text.", res.Sections[0].Content)
	assert.Equal(t, 1, strings.Count(res.Sections[0].Content, "Intro text."))
}

func TestMarkdownExtractor_NoHeadings(t *testing.T) {
	input := `Just some plain text.

Another paragraph here.`

	e := &MarkdownExtractor{}
	res, err := e.Extract(strings.NewReader(input), "plain.md")
	require.NoError(t, err)

	assert.Empty(t, res.Headers)
	require.Len(t, res.Sections, 1)
	assert.Empty(t, res.Sections[0].Heading)
	assert.Equal(t, "Just some plain text.\n\nAnother paragraph here.", res.Sections[0].Content)
}

func TestMarkdownExtractor_QuestionHeading(t *testing.T) {
	input := "## What is your scope 1 baseline?\n\nWe report annually.\n"

	e := &MarkdownExtractor{}
	res, err := e.Extract(strings.NewReader(input), "survey.md")
	require.NoError(t, err)

	require.Len(t, res.Sections, 1)
	assert.Equal(t, "question", res.Sections[0].Type)
}

func TestMarkdownExtractor_EmptyInput(t *testing.T) {
	e := &MarkdownExtractor{}
	res, err := e.Extract(strings.NewReader(""), "empty.md")
	require.NoError(t, err)
	assert.Empty(t, res.Sections)
	assert.Empty(t, res.Headers)
}
