package chunk

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/esg-tools/esgest/internal/esg"
	"github.com/esg-tools/esgest/internal/extract"
)

// OCRConfig controls page-level OCR assembly.
type OCRConfig struct {
	MinChars int // Pages with less combined text are skipped.
}

// DefaultOCRConfig returns sensible defaults.
func DefaultOCRConfig() OCRConfig {
	return OCRConfig{MinChars: 30}
}

// OCR text is noisy word soup, so the token estimate is a flat word count
// plus a small overhead rather than a character heuristic.
const ocrTokenOffset = 8

var dehyphenateRe = regexp.MustCompile(`(\w)-\n\s*(\w)`)

// OCRAssembler merges per-page OCR fragments into one cleaned, relevance-
// scored chunk per page.
type OCRAssembler struct {
	cfg    OCRConfig
	logger *slog.Logger
}

func NewOCRAssembler(cfg OCRConfig, logger *slog.Logger) *OCRAssembler {
	if cfg.MinChars <= 0 {
		cfg.MinChars = 30
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRAssembler{cfg: cfg, logger: logger.With("component", "ocr-assembler")}
}

// Assemble processes pages in ascending page order.
func (a *OCRAssembler) Assemble(pages map[int][]extract.PageImage) []Chunk {
	pageNums := make([]int, 0, len(pages))
	for p := range pages {
		pageNums = append(pageNums, p)
	}
	sort.Ints(pageNums)

	var chunks []Chunk
	for _, page := range pageNums {
		var fragments []string
		var imageIDs []string
		for _, img := range pages[page] {
			if strings.TrimSpace(img.OCRText) == "" {
				continue
			}
			fragments = append(fragments, img.OCRText)
			imageIDs = append(imageIDs, img.ID)
		}

		combined := strings.Join(fragments, " ")
		if len(combined) < a.cfg.MinChars {
			a.logger.Debug("skipping page below min chars", "page", page, "chars", len(combined))
			continue
		}

		text := CleanOCRText(combined)
		if text == "" {
			continue
		}

		ch := Chunk{
			ID:           newID(),
			Type:         TypeOCR,
			Page:         page,
			SourceImages: imageIDs,
			ESGRelevance: esg.Score(text),
		}
		words := len(strings.Fields(text))
		ch.Text = text
		ch.CharCount = len(text)
		ch.WordCount = words
		ch.TokenCount = words + ocrTokenOffset
		chunks = append(chunks, ch)
	}
	return chunks
}

// CleanOCRText normalizes raw OCR output: joins hyphen-wrapped words,
// strips non-printable characters, collapses whitespace, and NFC
// normalizes the result.
func CleanOCRText(text string) string {
	text = dehyphenateRe.ReplaceAllString(text, "$1$2")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		case unicode.IsPrint(r):
			b.WriteRune(r)
		}
	}

	cleaned := strings.Join(strings.Fields(b.String()), " ")
	return norm.NFC.String(cleaned)
}
