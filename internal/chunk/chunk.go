// Package chunk turns extracted document content into bounded-size,
// provenance-annotated retrieval chunks.
package chunk

import (
	"strings"

	"github.com/google/uuid"
)

// Type discriminates what a chunk carries: Text for text and ocr chunks,
// Header+Rows for table chunks.
type Type string

const (
	TypeText  Type = "text"
	TypeTable Type = "table"
	TypeOCR   Type = "ocr"
)

// DocumentInfo is the denormalized document snapshot stamped onto every
// chunk at enrichment time.
type DocumentInfo struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Language     string `json:"language"`
	Subject      string `json:"subject,omitempty"`
	CreationDate string `json:"creation_date,omitempty"`
	PageCount    int    `json:"page_count,omitempty"`
}

// Chunk is the unit of output: one bounded piece of document content with
// its provenance. ID is assigned at creation and never changes.
type Chunk struct {
	ID   string `json:"id"`
	Type Type   `json:"type"`

	Text   string     `json:"text,omitempty"`
	Header []string   `json:"header,omitempty"`
	Rows   [][]string `json:"rows,omitempty"`

	TokenCount int `json:"token_count"`
	CharCount  int `json:"char_count"`
	WordCount  int `json:"word_count"`

	// Tabular provenance: 1-indexed inclusive range in the original table.
	StartRow int `json:"start_row,omitempty"`
	EndRow   int `json:"end_row,omitempty"`

	// OCR provenance.
	Page         int      `json:"page,omitempty"`
	SourceImages []string `json:"source_images,omitempty"`

	ESGRelevance float64 `json:"esg_relevance,omitempty"`

	// Section fields, set by the enricher (the text chunker pre-fills
	// Section with the source heading).
	Section         string   `json:"section,omitempty"`
	SectionLevel    int      `json:"section_level,omitempty"`
	SectionPath     []string `json:"section_path,omitempty"`
	SectionFullPath string   `json:"section_full_path,omitempty"`

	Document       *DocumentInfo `json:"document,omitempty"`
	ReadingTimeSec float64       `json:"reading_time_sec"`

	// SourcePos links a text chunk back to its section position for
	// hierarchy resolution. Not serialized.
	SourcePos int `json:"-"`
}

func newID() string {
	return uuid.NewString()
}

// setTextContent stores text content and recomputes the derived counts.
func (c *Chunk) setTextContent(text string, tokenCount int) {
	c.Text = text
	c.TokenCount = tokenCount
	c.CharCount = len(text)
	c.WordCount = len(strings.Fields(text))
}
