package embedding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/passionfruits-net/docchat/internal/llm"
	"github.com/passionfruits-net/docchat/internal/usage"
	"github.com/passionfruits-net/docchat/pkg/tokenizer"
)

type Service struct {
	gateway llm.Gateway
	usage   usage.Recorder
	model   string
}

func NewService(gw llm.Gateway, rec usage.Recorder, model string) *Service {
	if model == "" {
		model = "text-embedding-3-small"
	}
	return &Service{gateway: gw, usage: rec, model: model}
}

// Embed converts texts into fixed-dimension vectors, one per input and in
// input order. Provider errors are surfaced verbatim; retrying is caller
// policy. A usage event is recorded per call when a customer is given.
func (s *Service) Embed(ctx context.Context, texts []string, customerID string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	// Batch in groups of 100 for API limits
	const batchSize = 100
	var all [][]float32

	for i := 0; i < len(texts); i += batchSize {
		end := min(i+batchSize, len(texts))

		resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
			Model: s.model,
			Input: texts[i:end],
		})
		if err != nil {
			return nil, fmt.Errorf("embed batch %d: %w", i/batchSize, err)
		}

		all = append(all, resp.Embeddings...)
	}

	if len(all) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: %d inputs, %d vectors", len(texts), len(all))
	}

	s.recordUsage(ctx, customerID, texts)
	return all, nil
}

func (s *Service) EmbedQuery(ctx context.Context, text, customerID string) ([]float32, error) {
	vecs, err := s.Embed(ctx, []string{text}, customerID)
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return vecs[0], nil
}

func (s *Service) recordUsage(ctx context.Context, customerID string, texts []string) {
	if s.usage == nil || customerID == "" {
		return
	}

	inputTokens := 0
	for _, t := range texts {
		inputTokens += tokenizer.EstimateTokens(t)
	}

	ev := usage.Event{
		CustomerID:    customerID,
		Operation:     usage.OpEmbedding,
		Model:         s.model,
		InputTokens:   inputTokens,
		EstimatedCost: llm.CalculateCost(s.model, inputTokens, 0),
		Metadata:      fmt.Sprintf("batch embedding: %d texts", len(texts)),
	}
	if err := s.usage.Record(ctx, ev); err != nil {
		slog.Warn("failed to record embedding usage", "customer", customerID, "error", err)
	}
}
