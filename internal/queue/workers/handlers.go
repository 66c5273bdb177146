package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/passionfruits-net/docchat/internal/document"
	"github.com/passionfruits-net/docchat/internal/queue"
	"github.com/passionfruits-net/docchat/internal/embedding"
	"github.com/passionfruits-net/docchat/internal/models"
	"github.com/passionfruits-net/docchat/internal/storage"
	"github.com/passionfruits-net/docchat/internal/vectorstore"
	"github.com/passionfruits-net/docchat/pkg/chunker"
	"github.com/passionfruits-net/docchat/pkg/textextract"
)

// IngestHandler turns an uploaded file into stored chunk rows with packed
// embeddings. Status transitions: pending -> processing -> ready, or failed.
type IngestHandler struct {
	docs     *document.Service
	disk     *storage.Disk
	embedder *embedding.Service
	chunks   vectorstore.Store
}

func NewIngestHandler(docs *document.Service, disk *storage.Disk, emb *embedding.Service, chunks vectorstore.Store) *IngestHandler {
	return &IngestHandler{docs: docs, disk: disk, embedder: emb, chunks: chunks}
}

func (h *IngestHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p queue.DocumentIngestPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode ingest payload: %w", err)
	}

	slog.Info("ingesting document", "document", p.DocumentID, "customer", p.CustomerID, "file", p.FileName)

	if err := h.docs.UpdateStatus(ctx, p.DocumentID, models.DocStatusProcessing); err != nil {
		return err
	}

	if err := h.ingest(ctx, p); err != nil {
		if statusErr := h.docs.UpdateStatus(ctx, p.DocumentID, models.DocStatusFailed); statusErr != nil {
			slog.Error("failed to mark document failed", "document", p.DocumentID, "error", statusErr)
		}
		return fmt.Errorf("ingest document %s: %w", p.DocumentID, err)
	}

	return h.docs.UpdateStatus(ctx, p.DocumentID, models.DocStatusReady)
}

func (h *IngestHandler) ingest(ctx context.Context, p queue.DocumentIngestPayload) error {
	f, err := h.disk.Open(p.FilePath)
	if err != nil {
		return fmt.Errorf("open stored file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat stored file: %w", err)
	}

	extracted, err := textextract.Extract(f, stat.Size(), p.Mime)
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	pieces := chunker.Chunk(extracted.Content, chunker.DefaultOptions())
	if len(pieces) == 0 {
		slog.Warn("document produced no chunks", "document", p.DocumentID, "file", p.FileName)
		return nil
	}

	texts := make([]string, len(pieces))
	for i, c := range pieces {
		texts[i] = c.Content
	}

	vectors, err := h.embedder.Embed(ctx, texts, p.CustomerID)
	if err != nil {
		return fmt.Errorf("embed chunks: %w", err)
	}

	rows := make([]vectorstore.Chunk, len(pieces))
	for i, c := range pieces {
		rows[i] = vectorstore.Chunk{
			DocumentID: p.DocumentID,
			CustomerID: p.CustomerID,
			ChunkIndex: c.Index,
			Content:    c.Content,
			Embedding:  embedding.VectorToBytes(vectors[i]),
			TokenCount: c.TokenCount,
		}
	}

	if err := h.chunks.InsertChunks(ctx, rows); err != nil {
		return fmt.Errorf("store chunks: %w", err)
	}

	slog.Info("document ingested", "document", p.DocumentID, "chunks", len(rows), "pages", extracted.Pages)
	return nil
}
