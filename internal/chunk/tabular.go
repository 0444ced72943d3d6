package chunk

import (
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/esg-tools/esgest/internal/extract"
	"github.com/esg-tools/esgest/internal/token"
)

// TabularConfig controls token-budget splitting of tabular data.
type TabularConfig struct {
	ChunkSize     int  // Rows per base chunk.
	MaxRows       int  // Rows per sub-split when recursing.
	IncludeHeader bool // Duplicate the header row into every chunk.
	MaxTokens     int  // Hard token budget per chunk.
}

// DefaultTabularConfig returns sensible defaults.
func DefaultTabularConfig() TabularConfig {
	return TabularConfig{
		ChunkSize:     100,
		MaxRows:       50,
		IncludeHeader: true,
		MaxTokens:     2000,
	}
}

// TabularChunker partitions parsed tables into chunks that stay under the
// token budget, splitting oversized batches first by rows and then by
// columns. Only an irreducible single row may ever exceed the budget.
type TabularChunker struct {
	cfg    TabularConfig
	est    token.Estimator
	logger *slog.Logger
}

func NewTabularChunker(cfg TabularConfig, est token.Estimator, logger *slog.Logger) *TabularChunker {
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 100
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 50
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 2000
	}
	if est == nil {
		est = token.NewHeuristicEstimator(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TabularChunker{cfg: cfg, est: est, logger: logger.With("component", "tabular-chunker")}
}

// Chunk splits one parsed table. Structurally invalid input (no rows or
// no columns) yields an empty result; the defect is logged, never
// partially chunked.
func (c *TabularChunker) Chunk(table extract.ParsedTable) []Chunk {
	if len(table.Rows) == 0 || len(table.Columns) == 0 {
		c.logger.Warn("rejecting malformed table",
			"table", table.Name,
			"rows", len(table.Rows),
			"columns", len(table.Columns))
		return nil
	}

	allCols := make([]int, len(table.Columns))
	for i := range allCols {
		allCols[i] = i
	}

	var chunks []Chunk
	for start := 0; start < len(table.Rows); start += c.cfg.ChunkSize {
		end := start + c.cfg.ChunkSize
		if end > len(table.Rows) {
			end = len(table.Rows)
		}
		batch := table.Rows[start:end]

		if c.estimate(table, batch, allCols) <= c.cfg.MaxTokens {
			chunks = append(chunks, c.materialize(table, batch, allCols, start+1, end))
			continue
		}
		chunks = append(chunks, c.split(table, batch, allCols, start+1, c.cfg.MaxRows)...)
	}
	return chunks
}

// ChunkAll runs Chunk over every table, concatenating results in order.
func (c *TabularChunker) ChunkAll(tables []extract.ParsedTable) []Chunk {
	var chunks []Chunk
	for _, t := range tables {
		chunks = append(chunks, c.Chunk(t)...)
	}
	return chunks
}

// split recursively decomposes an oversized batch: horizontal
// re-partition at maxRows, then vertical column grouping for batches
// still over budget, then recursion with maxRows halved. absStart is the
// 1-indexed position of rows[0] in the original table.
func (c *TabularChunker) split(table extract.ParsedTable, rows [][]string, cols []int, absStart, maxRows int) []Chunk {
	if maxRows < 1 {
		maxRows = 1
	}

	var out []Chunk
	for i := 0; i < len(rows); i += maxRows {
		end := i + maxRows
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[i:end]
		batchStart := absStart + i
		batchEnd := absStart + end - 1

		tokens := c.estimate(table, batch, cols)
		if tokens <= c.cfg.MaxTokens {
			out = append(out, c.materialize(table, batch, cols, batchStart, batchEnd))
			continue
		}

		groups := c.verticalGroups(batch, cols, tokens)
		for _, group := range groups {
			groupTokens := c.estimate(table, batch, group)
			switch {
			case groupTokens <= c.cfg.MaxTokens:
				out = append(out, c.materialize(table, batch, group, batchStart, batchEnd))
			case len(batch) == 1 || len(group) == 1:
				// Irreducible: a single row or single column that still
				// blows the budget is kept rather than looped on.
				c.logger.Warn("irreducible chunk exceeds token budget",
					"table", table.Name,
					"start_row", batchStart,
					"end_row", batchEnd,
					"columns", len(group),
					"tokens", groupTokens,
					"max_tokens", c.cfg.MaxTokens)
				out = append(out, c.materialize(table, batch, group, batchStart, batchEnd))
			default:
				half := maxRows / 2
				if half < 1 {
					half = 1
				}
				out = append(out, c.split(table, batch, group, batchStart, half)...)
			}
		}
	}
	return out
}

// verticalGroups distributes column indices into groups balanced by
// character volume: columns are sorted descending by total cell length,
// assigned round-robin, and each group is re-sorted ascending to keep the
// original left-to-right order.
func (c *TabularChunker) verticalGroups(rows [][]string, cols []int, tokens int) [][]int {
	numGroups := int(math.Ceil(float64(tokens)/float64(c.cfg.MaxTokens))) + 1
	if numGroups < 2 {
		numGroups = 2
	}
	if numGroups > len(cols) {
		numGroups = len(cols)
	}
	if numGroups < 1 {
		numGroups = 1
	}

	volumes := make(map[int]int, len(cols))
	for _, col := range cols {
		for _, row := range rows {
			if col < len(row) {
				volumes[col] += len(row[col])
			}
		}
	}

	sorted := make([]int, len(cols))
	copy(sorted, cols)
	sort.SliceStable(sorted, func(i, j int) bool {
		return volumes[sorted[i]] > volumes[sorted[j]]
	})

	groups := make([][]int, numGroups)
	for i, col := range sorted {
		g := i % numGroups
		groups[g] = append(groups[g], col)
	}
	for _, g := range groups {
		sort.Ints(g)
	}
	return groups
}

// estimate computes the token count of a batch projected onto cols,
// including the header row when configured.
func (c *TabularChunker) estimate(table extract.ParsedTable, rows [][]string, cols []int) int {
	projected := make([][]string, 0, len(rows)+1)
	if c.cfg.IncludeHeader {
		projected = append(projected, projectRow(table.Columns, cols))
	}
	for _, row := range rows {
		projected = append(projected, projectRow(row, cols))
	}
	return c.est.EstimateRows(projected)
}

// materialize builds the chunk value for a row batch and column subset.
func (c *TabularChunker) materialize(table extract.ParsedTable, rows [][]string, cols []int, startRow, endRow int) Chunk {
	projected := make([][]string, len(rows))
	for i, row := range rows {
		projected[i] = projectRow(row, cols)
	}

	ch := Chunk{
		ID:       newID(),
		Type:     TypeTable,
		Rows:     projected,
		StartRow: startRow,
		EndRow:   endRow,
	}
	if c.cfg.IncludeHeader {
		ch.Header = projectRow(table.Columns, cols)
	}

	joined := token.JoinRows(append([][]string{ch.Header}, projected...))
	ch.TokenCount = c.estimate(table, rows, cols)
	ch.CharCount = len(joined)
	ch.WordCount = len(strings.Fields(joined))
	return ch
}

func projectRow(row []string, cols []int) []string {
	out := make([]string, len(cols))
	for i, col := range cols {
		if col < len(row) {
			out[i] = row[col]
		}
	}
	return out
}
