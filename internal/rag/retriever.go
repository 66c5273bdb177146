package rag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/passionfruits-net/docchat/internal/embedding"
	"github.com/passionfruits-net/docchat/internal/vectorstore"
)

// DefaultTopK is how many chunks a query pulls into the prompt.
const DefaultTopK = 8

// RetrievedChunk is one ranked retrieval result.
type RetrievedChunk struct {
	Text     string
	FileName string
	Score    float64
}

// QueryEmbedder turns a single query into a vector.
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text, customerID string) ([]float32, error)
}

// Retriever ranks a customer's chunks against a query. It loads the full
// corpus and scans it in process. Fine at one-small-corpus-per-customer scale;
// the contract (ranked chunks by relevance) stays stable if the scan is ever
// swapped for a real index.
type Retriever struct {
	embedder QueryEmbedder
	store    vectorstore.Store
}

func NewRetriever(embedder QueryEmbedder, store vectorstore.Store) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

func (r *Retriever) Retrieve(ctx context.Context, customerID, query string, k int) ([]RetrievedChunk, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	queryVec, err := r.embedder.EmbedQuery(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := r.store.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	type candidate struct {
		text     string
		fileName string
		vec      []float32
	}

	candidates := make([]candidate, 0, len(rows))
	for _, row := range rows {
		vec, err := embedding.BytesToVector(row.Embedding)
		if err != nil {
			// Data integrity fault: fail the request rather than rank
			// against a silently truncated vector.
			slog.Error("corrupt stored embedding", "customer", customerID, "chunk", row.ID, "error", err)
			return nil, fmt.Errorf("chunk %s: %w", row.ID, err)
		}
		candidates = append(candidates, candidate{text: row.Content, fileName: row.FileName, vec: vec})
	}

	top, err := vectorstore.TopK(queryVec, candidates, func(c candidate) []float32 { return c.vec }, k)
	if err != nil {
		return nil, fmt.Errorf("rank chunks: %w", err)
	}

	results := make([]RetrievedChunk, len(top))
	for i, s := range top {
		results[i] = RetrievedChunk{Text: s.Item.text, FileName: s.Item.fileName, Score: s.Score}
	}
	return results, nil
}
