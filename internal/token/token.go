package token

import (
	"math"
	"strings"
)

// Estimator approximates language-model token counts for budget enforcement.
// Estimates only need to be consistent within a single document run, not exact.
type Estimator interface {
	EstimateText(text string) int
	EstimateRows(rows [][]string) int
}

// DefaultDivisor is the characters-per-token ratio used by the heuristic
// estimator. Roughly right for English prose and tabular cell data.
const DefaultDivisor = 3.5

// HeuristicEstimator estimates tokens by dividing character length by a
// fixed divisor. Cheap, deterministic, and good enough for chunk sizing.
type HeuristicEstimator struct {
	divisor float64
}

// NewHeuristicEstimator creates a heuristic estimator. A divisor <= 0 falls
// back to DefaultDivisor.
func NewHeuristicEstimator(divisor float64) *HeuristicEstimator {
	if divisor <= 0 {
		divisor = DefaultDivisor
	}
	return &HeuristicEstimator{divisor: divisor}
}

func (e *HeuristicEstimator) EstimateText(text string) int {
	if text == "" {
		return 0
	}
	n := int(math.Ceil(float64(len(text)) / e.divisor))
	if n < 1 {
		n = 1
	}
	return n
}

// EstimateRows joins all cell values with single spaces and estimates the
// joined text. Matches how row content is serialized into chunk text.
func (e *HeuristicEstimator) EstimateRows(rows [][]string) int {
	return e.EstimateText(JoinRows(rows))
}

// JoinRows flattens row data into a single space-separated string.
func JoinRows(rows [][]string) string {
	var sb strings.Builder
	for _, row := range rows {
		for _, cell := range row {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(cell)
		}
	}
	return sb.String()
}
