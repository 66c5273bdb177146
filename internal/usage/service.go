package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	OpEmbedding = "embedding"
	OpChat      = "chat"
)

// Event records one billable call against a customer.
type Event struct {
	CustomerID    string
	Operation     string
	Model         string
	InputTokens   int
	OutputTokens  int
	EstimatedCost float64
	Metadata      string
}

// Recorder is the accounting collaborator consumed by the embedding and chat
// paths. Recording failures are logged by callers, never fatal for a request.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

func (s *Service) Record(ctx context.Context, ev Event) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO usage_events (id, customer_id, operation, model, input_tokens, output_tokens, estimated_cost, metadata)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.New(), ev.CustomerID, ev.Operation, ev.Model, ev.InputTokens, ev.OutputTokens, ev.EstimatedCost, nullable(ev.Metadata),
	)
	if err != nil {
		return fmt.Errorf("insert usage event: %w", err)
	}
	return nil
}

type OperationSummary struct {
	Operation    string  `json:"operation"`
	Model        string  `json:"model"`
	Requests     int     `json:"requests"`
	InputTokens  int     `json:"input_tokens"`
	OutputTokens int     `json:"output_tokens"`
	TotalCost    float64 `json:"total_cost"`
}

func (s *Service) Summary(ctx context.Context, customerID string, days int) ([]OperationSummary, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	query := `SELECT operation, model, COUNT(*),
	                 COALESCE(SUM(input_tokens), 0),
	                 COALESCE(SUM(output_tokens), 0),
	                 COALESCE(SUM(estimated_cost), 0)
	          FROM usage_events WHERE created_at >= $1`
	args := []any{since}
	if customerID != "" {
		query += " AND customer_id = $2"
		args = append(args, customerID)
	}
	query += " GROUP BY operation, model ORDER BY 6 DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query usage summary: %w", err)
	}
	defer rows.Close()

	var summaries []OperationSummary
	for rows.Next() {
		var os OperationSummary
		if err := rows.Scan(&os.Operation, &os.Model, &os.Requests, &os.InputTokens, &os.OutputTokens, &os.TotalCost); err != nil {
			return nil, fmt.Errorf("scan usage summary: %w", err)
		}
		summaries = append(summaries, os)
	}
	return summaries, nil
}

type DailyCost struct {
	Date     string  `json:"date"`
	Cost     float64 `json:"cost"`
	Requests int     `json:"requests"`
}

func (s *Service) DailyCosts(ctx context.Context, customerID string, days int) ([]DailyCost, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)

	query := `SELECT to_char(created_at::date, 'YYYY-MM-DD'),
	                 COALESCE(SUM(estimated_cost), 0), COUNT(*)
	          FROM usage_events WHERE created_at >= $1`
	args := []any{since}
	if customerID != "" {
		query += " AND customer_id = $2"
		args = append(args, customerID)
	}
	query += " GROUP BY created_at::date ORDER BY 1 DESC"

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily costs: %w", err)
	}
	defer rows.Close()

	var costs []DailyCost
	for rows.Next() {
		var dc DailyCost
		if err := rows.Scan(&dc.Date, &dc.Cost, &dc.Requests); err != nil {
			return nil, fmt.Errorf("scan daily cost: %w", err)
		}
		costs = append(costs, dc)
	}
	return costs, nil
}

func (s *Service) TotalCost(ctx context.Context, customerID string) (float64, error) {
	query := "SELECT COALESCE(SUM(estimated_cost), 0) FROM usage_events"
	args := []any{}
	if customerID != "" {
		query += " WHERE customer_id = $1"
		args = append(args, customerID)
	}

	var total float64
	if err := s.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("query total cost: %w", err)
	}
	return total, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
