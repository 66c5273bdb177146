package models

import (
	"time"
)

// Customer is the tenant isolation boundary. All documents and chunks are
// partitioned by CustomerID; there is no cross-customer read path.
type Customer struct {
	CustomerID            string    `json:"customer_id" db:"customer_id"`
	Name                  string    `json:"name" db:"name"`
	OpenAIEnabled         bool      `json:"openai_enabled" db:"openai_enabled"`
	SystemPrompt          *string   `json:"system_prompt,omitempty" db:"system_prompt"`
	ExplanationComplexity string    `json:"explanation_complexity" db:"explanation_complexity"`
	AllowedOrigins        []string  `json:"allowed_origins" db:"allowed_origins"`
	CreatedAt             time.Time `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time `json:"updated_at" db:"updated_at"`
}

const (
	ComplexitySimple   = "simple"
	ComplexityAdvanced = "advanced"
)
