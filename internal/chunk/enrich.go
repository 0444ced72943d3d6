package chunk

import (
	"github.com/esg-tools/esgest/internal/extract"
	"github.com/esg-tools/esgest/internal/section"
)

// Words-per-minute assumption behind the reading time estimate.
const readingWordsPerMinute = 200

// Enrich stamps document metadata and the nearest preceding section path
// onto every chunk, returning new chunk values. Idempotent: each call
// fully overwrites the fields it owns, so repeated enrichment with the
// same inputs yields identical results.
func Enrich(chunks []Chunk, meta extract.Metadata, hierarchy []section.Node) []Chunk {
	doc := documentInfo(meta)

	out := make([]Chunk, len(chunks))
	for i, c := range chunks {
		enriched := c

		snapshot := doc
		enriched.Document = &snapshot
		enriched.ReadingTimeSec = float64(c.WordCount) / readingWordsPerMinute * 60

		if pos, ok := chunkPosition(c); ok {
			if node := section.NearestNode(hierarchy, pos); node != nil {
				enriched.Section = node.Text
				enriched.SectionLevel = node.Level
				enriched.SectionPath = append([]string(nil), node.Path...)
				enriched.SectionFullPath = node.FullPath
			}
		}

		out[i] = enriched
	}
	return out
}

// chunkPosition maps a chunk to the position key used by the section
// hierarchy: start row for tables, page for OCR, source section position
// for text. Chunks without one get document metadata only.
func chunkPosition(c Chunk) (int, bool) {
	switch c.Type {
	case TypeTable:
		if c.StartRow > 0 {
			return c.StartRow, true
		}
	case TypeOCR:
		if c.Page > 0 {
			return c.Page, true
		}
	case TypeText:
		if c.SourcePos > 0 {
			return c.SourcePos, true
		}
	}
	return 0, false
}

func documentInfo(meta extract.Metadata) DocumentInfo {
	doc := DocumentInfo{
		Title:     orUnknown(meta.Title),
		Author:    orUnknown(meta.Author),
		Language:  orUnknown(meta.Language),
		Subject:   meta.Subject,
		PageCount: meta.PageCount,
	}
	if !meta.CreationDate.IsZero() {
		doc.CreationDate = meta.CreationDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	return doc
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
