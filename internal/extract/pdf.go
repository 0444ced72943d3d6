package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. Page text is emitted in the OCR shape
// (one fragment per page) so scanned and born-digital PDFs flow through
// the same assembler.
type PDFExtractor struct{}

func (e *PDFExtractor) Extract(r io.Reader, filename string) (*Result, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so write to a temp file.
	tmp, err := os.CreateTemp("", "esgest-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	f, reader, err := pdflib.Open(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	defer f.Close()

	res := &Result{
		Metadata: Metadata{
			Filename: filename,
			Title:    strings.TrimSuffix(filename, ".pdf"),
		},
		Pages: make(map[int][]PageImage),
	}

	numPages := reader.NumPage()
	res.Metadata.PageCount = numPages

	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		res.Pages[i] = []PageImage{{
			ID:      fmt.Sprintf("%s-p%d", res.Metadata.Title, i),
			OCRText: text,
		}}
	}

	return res, nil
}
