package vectorstore

import (
	"context"

	"github.com/google/uuid"
)

// Chunk is an immutable text segment of one document. The embedding is stored
// as packed little-endian float32 bytes.
type Chunk struct {
	ID         uuid.UUID
	DocumentID uuid.UUID
	CustomerID string
	ChunkIndex int
	Content    string
	Embedding  []byte
	TokenCount int
}

// CustomerChunk is a chunk row joined with its owning document's display name.
type CustomerChunk struct {
	ID        uuid.UUID
	Content   string
	Embedding []byte
	FileName  string
}

type Store interface {
	InsertChunks(ctx context.Context, chunks []Chunk) error
	ListByCustomer(ctx context.Context, customerID string) ([]CustomerChunk, error)
	DeleteByDocument(ctx context.Context, customerID string, documentID uuid.UUID) error
	DeleteByCustomer(ctx context.Context, customerID string) error
}
