package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passionfruits-net/docchat/pkg/tokenizer"
)

func manySentences(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "This is sentence number %d about an interesting topic. ", i)
	}
	return strings.TrimSpace(b.String())
}

func TestChunkEmptyInput(t *testing.T) {
	assert.Empty(t, Chunk("", DefaultOptions()))
	assert.Empty(t, Chunk("   \n  ", DefaultOptions()))
}

func TestChunkShortTextSingleChunk(t *testing.T) {
	text := "Just one short sentence. And another one."
	chunks := Chunk(text, DefaultOptions())

	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, 0, chunks[0].Start)
}

func TestChunkCoversWholeInput(t *testing.T) {
	text := manySentences(60)
	opts := Options{MaxTokens: 40, OverlapTokens: 8}
	chunks := Chunk(text, opts)

	require.Greater(t, len(chunks), 1)

	// Chunks tile the input: the first starts at 0, the last ends at the end,
	// and each chunk starts at or before the previous chunk's end.
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, len(text), chunks[len(chunks)-1].End)
	for i := 1; i < len(chunks); i++ {
		assert.LessOrEqual(t, chunks[i].Start, chunks[i-1].End,
			"chunk %d leaves a gap after chunk %d", i, i-1)
	}

	// Offsets point at the chunk's own text, modulo whitespace around the
	// overlap seam.
	for _, c := range chunks {
		assert.Equal(t, normalize(text[c.Start:c.End]), normalize(c.Content))
	}
}

func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestChunkRespectsTokenBound(t *testing.T) {
	text := manySentences(80)
	opts := Options{MaxTokens: 50, OverlapTokens: 10}

	// Each sentence is well under MaxTokens, so no chunk may exceed the bound.
	for _, c := range Chunk(text, opts) {
		assert.NotEmpty(t, c.Content)
		assert.LessOrEqual(t, c.TokenCount, opts.MaxTokens,
			"chunk %d exceeds token bound", c.Index)
	}
}

func TestChunkOversizedSentenceKeptWhole(t *testing.T) {
	long := strings.Repeat("word ", 100)
	text := "Short intro. " + strings.TrimSpace(long) + "."
	opts := Options{MaxTokens: 20, OverlapTokens: 4}

	chunks := Chunk(text, opts)
	require.NotEmpty(t, chunks)

	var found bool
	for _, c := range chunks {
		if strings.Count(c.Content, "word") == 100 {
			found = true
			assert.Greater(t, c.TokenCount, opts.MaxTokens)
		}
	}
	assert.True(t, found, "long sentence was split")
}

func TestChunkOverlapSeedsNextChunk(t *testing.T) {
	text := manySentences(40)
	opts := Options{MaxTokens: 40, OverlapTokens: 10}
	chunks := Chunk(text, opts)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Less(t, chunks[i].Start, chunks[i-1].End,
			"chunk %d shares no window with its predecessor", i)

		overlap := strings.TrimSpace(text[chunks[i].Start:chunks[i-1].End])
		assert.GreaterOrEqual(t, tokenizer.EstimateTokens(overlap), opts.OverlapTokens)
	}
}

func TestChunkNoOverlapWhenDisabled(t *testing.T) {
	text := manySentences(40)
	chunks := Chunk(text, Options{MaxTokens: 40, OverlapTokens: 0})

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].End, chunks[i].Start)
	}
}

func TestChunkUnterminatedTrailingText(t *testing.T) {
	text := "A full sentence. then a trailing fragment without punctuation"
	chunks := Chunk(text, DefaultOptions())

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, "trailing fragment")
}

func TestSplitSentencesReconstructsInput(t *testing.T) {
	tests := []string{
		"One. Two! Three? Four",
		"No terminator at all",
		"Ellipsis... then more. End.",
		"",
	}
	for _, text := range tests {
		assert.Equal(t, text, strings.Join(splitSentences(text), ""))
	}
}
