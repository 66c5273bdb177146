package rag

import (
	"context"
	"strings"
	"time"
)

// wordReplayDelay paces synthetic streaming so non-generation fallbacks feel
// the same as real token streams to the caller.
const wordReplayDelay = 30 * time.Millisecond

// ReplayWords emits text one word at a time with a fixed delay between words.
// Returns the context error if the caller goes away mid-replay.
func ReplayWords(ctx context.Context, text string, delay time.Duration, emit func(word string)) error {
	words := strings.Split(text, " ")
	for i, w := range words {
		if i < len(words)-1 {
			w += " "
		}
		emit(w)

		if i == len(words)-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil
}
