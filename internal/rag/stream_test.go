package rag

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplayWordsReassemblesText(t *testing.T) {
	text := "one two three four"
	var got strings.Builder

	err := ReplayWords(context.Background(), text, time.Millisecond, func(w string) {
		got.WriteString(w)
	})

	require.NoError(t, err)
	assert.Equal(t, text, got.String())
}

func TestReplayWordsSingleWord(t *testing.T) {
	var words []string
	err := ReplayWords(context.Background(), "hello", time.Millisecond, func(w string) {
		words = append(words, w)
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"hello"}, words)
}

func TestReplayWordsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	count := 0
	err := ReplayWords(ctx, "a b c d e f g h", 10*time.Millisecond, func(w string) {
		count++
		if count == 2 {
			cancel()
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, count, 8)
}
