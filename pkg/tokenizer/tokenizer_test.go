package tokenizer

import "testing"

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"whitespace only", "   \n\t  ", 0},
		{"single word", "hello", 1},
		{"two words", "hello world", 2},
		{"three words", "one two three", 4},
		{"six words", "one two three four five six", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateTokens(tt.text); got != tt.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestEstimateTokensDeterministic(t *testing.T) {
	text := "the quick brown fox jumps over the lazy dog"
	first := EstimateTokens(text)
	for i := 0; i < 10; i++ {
		if got := EstimateTokens(text); got != first {
			t.Fatalf("estimate changed between calls: %d vs %d", first, got)
		}
	}
}
