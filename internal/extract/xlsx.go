package extract

import (
	"fmt"
	"io"
	"os"

	"github.com/tsawler/tabula/xlsx"
)

// XLSXExtractor handles XLSX workbooks, one ParsedTable per sheet. The
// underlying reader needs a seekable file, so the input is spooled to a
// temp file first.
type XLSXExtractor struct{}

func (e *XLSXExtractor) Extract(r io.Reader, filename string) (*Result, error) {
	tmp, err := os.CreateTemp("", "esgest-*.xlsx")
	if err != nil {
		return nil, fmt.Errorf("spool xlsx: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("spool xlsx: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("spool xlsx: %w", err)
	}

	reader, err := xlsx.Open(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer reader.Close()

	meta := reader.Metadata()
	res := &Result{
		Metadata: Metadata{
			Filename:     filename,
			Title:        meta.Title,
			Author:       meta.Author,
			Subject:      meta.Subject,
			CreationDate: meta.CreationDate,
		},
	}
	if res.Metadata.Title == "" {
		res.Metadata.Title = filename
	}

	for _, t := range reader.Tables() {
		if len(t.Rows) == 0 && len(t.Headers) == 0 {
			continue
		}
		res.Tables = append(res.Tables, ParsedTable{
			Name:    t.Name,
			Columns: t.Headers,
			Rows:    t.Rows,
		})
		res.Metadata.RowCount += len(t.Rows)
		if len(t.Headers) > res.Metadata.ColumnCount {
			res.Metadata.ColumnCount = len(t.Headers)
		}
	}

	return res, nil
}
