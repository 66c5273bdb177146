package models

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	ID         uuid.UUID `json:"id" db:"id"`
	CustomerID string    `json:"customer_id" db:"customer_id"`
	FileName   string    `json:"file_name" db:"file_name"`
	FilePath   string    `json:"file_path,omitempty" db:"file_path"`
	Mime       string    `json:"mime" db:"mime"`
	Status     string    `json:"status" db:"status"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}

const (
	DocStatusPending    = "pending"
	DocStatusProcessing = "processing"
	DocStatusReady      = "ready"
	DocStatusFailed     = "failed"
)
