package chunker

import (
	"strings"

	"github.com/passionfruits-net/docchat/pkg/tokenizer"
)

type Options struct {
	MaxTokens     int // target chunk size in estimated tokens
	OverlapTokens int // overlap carried between adjacent chunks
}

func DefaultOptions() Options {
	return Options{
		MaxTokens:     350,
		OverlapTokens: 40,
	}
}

type TextChunk struct {
	Content    string
	Index      int
	Start      int // byte offset into the original text
	End        int
	TokenCount int
}

// Chunk splits text into overlapping, token-bounded segments. Sentences are
// accumulated until the estimated token count would exceed MaxTokens; each
// flushed chunk seeds the next with its trailing OverlapTokens worth of words.
// A single sentence longer than MaxTokens is kept whole, so that one chunk may
// exceed the limit. Empty input yields no chunks.
func Chunk(text string, opts Options) []TextChunk {
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultOptions().MaxTokens
	}
	if opts.OverlapTokens < 0 {
		opts.OverlapTokens = 0
	}

	sentences := splitSentences(text)

	var chunks []TextChunk
	var current string
	currentTokens := 0
	chunkStart := 0
	position := 0

	for _, sentence := range sentences {
		sentenceTokens := tokenizer.EstimateTokens(sentence)

		if currentTokens+sentenceTokens > opts.MaxTokens && current != "" {
			if trimmed := strings.TrimSpace(current); trimmed != "" {
				chunks = append(chunks, TextChunk{
					Content:    trimmed,
					Index:      len(chunks),
					Start:      chunkStart,
					End:        position,
					TokenCount: tokenizer.EstimateTokens(trimmed),
				})
			}

			overlap := overlapTail(current, opts.OverlapTokens)
			current = overlap + sentence
			currentTokens = tokenizer.EstimateTokens(current)
			chunkStart = position - len(overlap)
		} else {
			current += sentence
			currentTokens += sentenceTokens
		}

		position += len(sentence)
	}

	if trimmed := strings.TrimSpace(current); trimmed != "" {
		chunks = append(chunks, TextChunk{
			Content:    trimmed,
			Index:      len(chunks),
			Start:      chunkStart,
			End:        position,
			TokenCount: tokenizer.EstimateTokens(trimmed),
		})
	}

	return chunks
}

// splitSentences cuts text on runs of sentence-ending punctuation. Any
// trailing text without a terminator becomes a final sentence, so that the
// concatenation of all sentences reproduces the input exactly.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	inTerminator := false

	for i, r := range text {
		terminator := r == '.' || r == '!' || r == '?'
		if inTerminator && !terminator {
			sentences = append(sentences, text[start:i])
			start = i
		}
		inTerminator = terminator
	}

	if start < len(text) {
		sentences = append(sentences, text[start:])
	}
	return sentences
}

// overlapTail reconstructs the trailing words of text whose accumulated token
// estimate reaches overlapTokens. Returns "" when overlap is disabled or the
// text has no words; otherwise the tail with a trailing space separator.
func overlapTail(text string, overlapTokens int) string {
	if overlapTokens <= 0 {
		return ""
	}

	words := strings.Fields(text)
	tokenCount := 0
	for i := len(words) - 1; i >= 0; i-- {
		tokenCount += tokenizer.EstimateTokens(words[i])
		if tokenCount >= overlapTokens {
			return strings.Join(words[i:], " ") + " "
		}
	}
	return ""
}
