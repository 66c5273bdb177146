package queue

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeDocumentIngest = "document:ingest"

// DocumentIngestPayload identifies one uploaded document to extract, chunk,
// embed, and store.
type DocumentIngestPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	CustomerID string    `json:"customer_id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	Mime       string    `json:"mime"`
}

func NewDocumentIngestTask(p DocumentIngestPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal ingest payload: %w", err)
	}
	return asynq.NewTask(TypeDocumentIngest, payload), nil
}
