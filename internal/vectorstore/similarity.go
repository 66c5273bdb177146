package vectorstore

import (
	"fmt"
	"math"
	"sort"
)

// CosineSimilarity returns dot(a,b) / (|a|*|b|) in [-1, 1]. It is defined as
// 0 when either vector has zero norm. Mismatched dimensions are a
// data-integrity fault, not a recoverable condition.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

type Scored[T any] struct {
	Item  T
	Score float64
}

// TopK scores every candidate against the query vector and returns at most k
// results in descending score order. The scan is exact: candidate sets are
// scoped to a single customer's corpus, so no approximate index is needed.
// Ties keep the original candidate order.
func TopK[T any](query []float32, items []T, vec func(T) []float32, k int) ([]Scored[T], error) {
	scored := make([]Scored[T], len(items))
	for i, item := range items {
		score, err := CosineSimilarity(query, vec(item))
		if err != nil {
			return nil, fmt.Errorf("score candidate %d: %w", i, err)
		}
		scored[i] = Scored[T]{Item: item, Score: score}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if k >= 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored, nil
}
