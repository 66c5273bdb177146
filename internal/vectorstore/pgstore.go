package vectorstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgStore struct {
	db *pgxpool.Pool
}

func NewPgStore(db *pgxpool.Pool) *PgStore {
	return &PgStore{db: db}
}

func (s *PgStore) InsertChunks(ctx context.Context, chunks []Chunk) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range chunks {
		id := c.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		_, err := tx.Exec(ctx,
			`INSERT INTO chunks (id, document_id, customer_id, chunk_index, content, embedding, token_count)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			id, c.DocumentID, c.CustomerID, c.ChunkIndex, c.Content, c.Embedding, c.TokenCount,
		)
		if err != nil {
			return fmt.Errorf("insert chunk %d: %w", c.ChunkIndex, err)
		}
	}

	return tx.Commit(ctx)
}

// ListByCustomer loads the customer's full chunk set joined with document
// names. This is the single query the retriever scans per request.
func (s *PgStore) ListByCustomer(ctx context.Context, customerID string) ([]CustomerChunk, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.id, c.content, c.embedding, d.file_name
		 FROM chunks c
		 JOIN documents d ON c.document_id = d.id
		 WHERE c.customer_id = $1
		 ORDER BY d.uploaded_at, c.chunk_index`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []CustomerChunk
	for rows.Next() {
		var c CustomerChunk
		if err := rows.Scan(&c.ID, &c.Content, &c.Embedding, &c.FileName); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

func (s *PgStore) DeleteByDocument(ctx context.Context, customerID string, documentID uuid.UUID) error {
	_, err := s.db.Exec(ctx,
		"DELETE FROM chunks WHERE document_id = $1 AND customer_id = $2",
		documentID, customerID,
	)
	return err
}

func (s *PgStore) DeleteByCustomer(ctx context.Context, customerID string) error {
	_, err := s.db.Exec(ctx, "DELETE FROM chunks WHERE customer_id = $1", customerID)
	return err
}
