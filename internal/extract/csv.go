package extract

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVExtractor handles CSV files. The first row is taken as the header.
type CSVExtractor struct{}

func (e *CSVExtractor) Extract(r io.Reader, filename string) (*Result, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	title := strings.TrimSuffix(filename, ".csv")
	res := &Result{
		Metadata: Metadata{
			Filename:  filename,
			Title:     title,
			Encoding:  "utf-8",
			Delimiter: ",",
		},
	}
	if len(records) == 0 {
		return res, nil
	}

	columns := records[0]
	rows := records[1:]

	res.Metadata.RowCount = len(rows)
	res.Metadata.ColumnCount = len(columns)
	res.Tables = []ParsedTable{{
		Name:    title,
		Columns: columns,
		Rows:    rows,
	}}

	return res, nil
}
