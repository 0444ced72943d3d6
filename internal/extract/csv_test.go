package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExtractor_Basic(t *testing.T) {
	input := "name,emissions,year\nplant-a,120,2024\nplant-b,90,2024\n"

	e := &CSVExtractor{}
	res, err := e.Extract(strings.NewReader(input), "emissions.csv")
	require.NoError(t, err)

	assert.Equal(t, KindTable, res.Kind())
	require.Len(t, res.Tables, 1)

	table := res.Tables[0]
	assert.Equal(t, []string{"name", "emissions", "year"}, table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"plant-a", "120", "2024"}, table.Rows[0])

	assert.Equal(t, 2, res.Metadata.RowCount)
	assert.Equal(t, 3, res.Metadata.ColumnCount)
	assert.Equal(t, "emissions", res.Metadata.Title)
}

func TestCSVExtractor_Empty(t *testing.T) {
	e := &CSVExtractor{}
	res, err := e.Extract(strings.NewReader(""), "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, res.Tables)
	assert.Equal(t, KindText, res.Kind())
}

func TestCSVExtractor_RaggedRows(t *testing.T) {
	input := "a,b,c\n1,2\n3,4,5,6\n"

	e := &CSVExtractor{}
	res, err := e.Extract(strings.NewReader(input), "ragged.csv")
	require.NoError(t, err)
	require.Len(t, res.Tables, 1)
	assert.Len(t, res.Tables[0].Rows, 2)
}

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"report.csv", false},
		{"report.xlsx", false},
		{"report.md", false},
		{"report.docx", false},
		{"report.html", false},
		{"report.pdf", false},
		{"report.txt", false},
		{"report.exe", true},
	}
	for _, tt := range tests {
		ex, err := ForFile(tt.filename)
		if tt.wantErr {
			assert.Error(t, err, tt.filename)
		} else {
			assert.NoError(t, err, tt.filename)
			assert.NotNil(t, ex)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	assert.True(t, IsSupportedExtension("a.CSV"))
	assert.True(t, IsSupportedExtension("a.xlsx"))
	assert.False(t, IsSupportedExtension("a.zip"))
}
