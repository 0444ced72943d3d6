package token

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenEstimator counts tokens with a real BPE encoding. Slower than the
// heuristic but exact for OpenAI-family models.
type TiktokenEstimator struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator loads the cl100k_base encoding. The vocabulary is
// embedded, so this does not hit the network unless the cache is disabled.
func NewTiktokenEstimator() (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load cl100k_base encoding: %w", err)
	}
	return &TiktokenEstimator{enc: enc}, nil
}

func (e *TiktokenEstimator) EstimateText(text string) int {
	if text == "" {
		return 0
	}
	return len(e.enc.Encode(text, nil, nil))
}

func (e *TiktokenEstimator) EstimateRows(rows [][]string) int {
	return e.EstimateText(JoinRows(rows))
}
