package document

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/passionfruits-net/docchat/internal/models"
	"github.com/passionfruits-net/docchat/internal/queue"
	"github.com/passionfruits-net/docchat/internal/storage"
	"github.com/passionfruits-net/docchat/pkg/textextract"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Info is a document row plus its ingested chunk count.
type Info struct {
	models.Document
	ChunkCount int `json:"chunk_count"`
}

// Service owns document lifecycle: upload stores the bytes and enqueues
// ingestion; delete cascades chunks at the schema level and removes the file.
type Service struct {
	db    *pgxpool.Pool
	disk  *storage.Disk
	queue queue.Enqueuer
}

func NewService(db *pgxpool.Pool, disk *storage.Disk, q queue.Enqueuer) *Service {
	return &Service{db: db, disk: disk, queue: q}
}

func (s *Service) Upload(ctx context.Context, customerID, fileName, mime string, r io.Reader) (*models.Document, error) {
	if !supported(fileName) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(fileName))
	}

	path, err := s.disk.Save(customerID, fileName, r)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	doc := &models.Document{
		ID:         uuid.New(),
		CustomerID: customerID,
		FileName:   fileName,
		FilePath:   path,
		Mime:       mime,
		Status:     models.DocStatusPending,
	}

	err = s.db.QueryRow(ctx,
		`INSERT INTO documents (id, customer_id, file_name, file_path, mime, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING uploaded_at`,
		doc.ID, doc.CustomerID, doc.FileName, doc.FilePath, doc.Mime, doc.Status,
	).Scan(&doc.UploadedAt)
	if err != nil {
		s.removeFile(path)
		return nil, fmt.Errorf("insert document: %w", err)
	}

	err = s.queue.EnqueueDocumentIngest(ctx, queue.DocumentIngestPayload{
		DocumentID: doc.ID,
		CustomerID: doc.CustomerID,
		FileName:   doc.FileName,
		FilePath:   doc.FilePath,
		Mime:       doc.Mime,
	})
	if err != nil {
		// The row stays pending; a requeue sweep or re-upload recovers it.
		slog.Error("failed to enqueue ingestion", "document", doc.ID, "error", err)
		return nil, fmt.Errorf("enqueue ingestion: %w", err)
	}

	return doc, nil
}

func (s *Service) List(ctx context.Context, customerID string) ([]Info, error) {
	rows, err := s.db.Query(ctx,
		`SELECT d.id, d.customer_id, d.file_name, d.mime, d.status, d.uploaded_at,
		        count(c.id) AS chunk_count
		 FROM documents d
		 LEFT JOIN chunks c ON c.document_id = d.id
		 WHERE d.customer_id = $1
		 GROUP BY d.id
		 ORDER BY d.uploaded_at DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Info
	for rows.Next() {
		var d Info
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.FileName, &d.Mime, &d.Status, &d.UploadedAt, &d.ChunkCount); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Service) Get(ctx context.Context, customerID string, id uuid.UUID) (*models.Document, error) {
	var d models.Document
	err := s.db.QueryRow(ctx,
		`SELECT id, customer_id, file_name, file_path, mime, status, uploaded_at
		 FROM documents WHERE id = $1 AND customer_id = $2`,
		id, customerID,
	).Scan(&d.ID, &d.CustomerID, &d.FileName, &d.FilePath, &d.Mime, &d.Status, &d.UploadedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &d, nil
}

func (s *Service) Delete(ctx context.Context, customerID string, id uuid.UUID) error {
	doc, err := s.Get(ctx, customerID, id)
	if err != nil {
		return err
	}

	// Chunks cascade with the document row.
	if _, err := s.db.Exec(ctx, "DELETE FROM documents WHERE id = $1 AND customer_id = $2", id, customerID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	s.removeFile(doc.FilePath)
	return nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.db.Exec(ctx, "UPDATE documents SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) removeFile(path string) {
	if err := s.disk.Remove(path); err != nil {
		slog.Warn("failed to remove stored file", "path", path, "error", err)
	}
}

func supported(fileName string) bool {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, t := range textextract.SupportedTypes() {
		if ext == t {
			return true
		}
	}
	return false
}
