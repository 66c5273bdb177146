package tokenizer

import (
	"strings"
)

// EstimateTokens provides a rough token count estimate.
// Deterministic and stable across calls; roughly 4 tokens per 3 words.
func EstimateTokens(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}
	return max(len(words)*4/3, 1)
}
