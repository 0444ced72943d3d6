// Package extract adapts raw document files into the structured inputs the
// chunkers consume: tables, sections, headers, and per-page OCR text.
package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/esg-tools/esgest/internal/section"
)

// Metadata is the document-level metadata an extractor can recover.
// Missing fields are tolerated everywhere downstream.
type Metadata struct {
	Filename     string
	Title        string
	Author       string
	Subject      string
	Language     string
	CreationDate time.Time
	PageCount    int
	RowCount     int
	ColumnCount  int
	Encoding     string
	Delimiter    string
}

// ParsedTable is row-oriented tabular data with a header list. One per
// sheet for multi-sheet formats.
type ParsedTable struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// Section is a heading-scoped span of document text.
type Section struct {
	Heading  string
	Content  string
	Type     string // "question", "observation", or "table"
	Position int
}

// PageImage is one OCR'd image on a page.
type PageImage struct {
	ID      string
	OCRText string
}

// Result is the full extraction output for one document. Only the fields
// relevant to the source format are populated.
type Result struct {
	Metadata Metadata
	Tables   []ParsedTable
	Sections []Section
	Headers  []section.Header
	Pages    map[int][]PageImage
}

// Content kinds, derived from which Result fields are populated.
const (
	KindTable = "table"
	KindText  = "text"
	KindOCR   = "ocr"
)

// Kind reports which chunker should handle this result.
func (r *Result) Kind() string {
	switch {
	case len(r.Tables) > 0:
		return KindTable
	case len(r.Pages) > 0:
		return KindOCR
	default:
		return KindText
	}
}

// Extractor converts raw document bytes into a Result.
type Extractor interface {
	Extract(r io.Reader, filename string) (*Result, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".csv":      true,
	".xlsx":     true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename. The registry is
// static: extension to implementation, no runtime plugin loading.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".csv":
		return &CSVExtractor{}, nil
	case ".xlsx":
		return &XLSXExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
