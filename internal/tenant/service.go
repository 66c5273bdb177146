package tenant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/passionfruits-net/docchat/internal/cache"
	"github.com/passionfruits-net/docchat/internal/models"
)

var ErrNotFound = errors.New("customer not found")

const cacheTTL = 30 * time.Second

// Service manages customer records. Reads go through a short-TTL redis cache
// because every chat request loads the customer's configuration.
type Service struct {
	db    *pgxpool.Pool
	cache *cache.Cache
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	return &Service{db: db, cache: c}
}

type CreateParams struct {
	CustomerID            string   `json:"customer_id"`
	Name                  string   `json:"name"`
	OpenAIEnabled         bool     `json:"openai_enabled"`
	SystemPrompt          *string  `json:"system_prompt"`
	ExplanationComplexity string   `json:"explanation_complexity"`
	AllowedOrigins        []string `json:"allowed_origins"`
}

func (p *CreateParams) Validate() error {
	if p.CustomerID == "" {
		return errors.New("customer_id is required")
	}
	if p.Name == "" {
		return errors.New("name is required")
	}
	if p.ExplanationComplexity == "" {
		p.ExplanationComplexity = models.ComplexityAdvanced
	}
	if p.ExplanationComplexity != models.ComplexitySimple && p.ExplanationComplexity != models.ComplexityAdvanced {
		return fmt.Errorf("invalid explanation_complexity %q", p.ExplanationComplexity)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p CreateParams) (*models.Customer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	origins, err := json.Marshal(orEmpty(p.AllowedOrigins))
	if err != nil {
		return nil, fmt.Errorf("marshal origins: %w", err)
	}

	row := s.db.QueryRow(ctx,
		`INSERT INTO customers (customer_id, name, openai_enabled, system_prompt, explanation_complexity, allowed_origins)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING customer_id, name, openai_enabled, system_prompt, explanation_complexity, allowed_origins, created_at, updated_at`,
		p.CustomerID, p.Name, p.OpenAIEnabled, p.SystemPrompt, p.ExplanationComplexity, origins,
	)
	return scanCustomer(row)
}

func (s *Service) Get(ctx context.Context, customerID string) (*models.Customer, error) {
	if s.cache != nil {
		var c models.Customer
		if err := s.cache.Get(ctx, cacheKey(customerID), &c); err == nil {
			return &c, nil
		}
	}

	row := s.db.QueryRow(ctx,
		`SELECT customer_id, name, openai_enabled, system_prompt, explanation_complexity, allowed_origins, created_at, updated_at
		 FROM customers WHERE customer_id = $1`,
		customerID,
	)
	c, err := scanCustomer(row)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(customerID), c, cacheTTL); err != nil {
			slog.Warn("customer cache set failed", "customer", customerID, "error", err)
		}
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.Query(ctx,
		`SELECT customer_id, name, openai_enabled, system_prompt, explanation_complexity, allowed_origins, created_at, updated_at
		 FROM customers ORDER BY created_at`,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

type UpdateParams struct {
	Name                  *string  `json:"name"`
	OpenAIEnabled         *bool    `json:"openai_enabled"`
	SystemPrompt          *string  `json:"system_prompt"`
	ExplanationComplexity *string  `json:"explanation_complexity"`
	AllowedOrigins        []string `json:"allowed_origins"`
}

func (s *Service) Update(ctx context.Context, customerID string, p UpdateParams) (*models.Customer, error) {
	current, err := s.getUncached(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if p.Name != nil {
		current.Name = *p.Name
	}
	if p.OpenAIEnabled != nil {
		current.OpenAIEnabled = *p.OpenAIEnabled
	}
	if p.SystemPrompt != nil {
		current.SystemPrompt = p.SystemPrompt
	}
	if p.ExplanationComplexity != nil {
		if *p.ExplanationComplexity != models.ComplexitySimple && *p.ExplanationComplexity != models.ComplexityAdvanced {
			return nil, fmt.Errorf("invalid explanation_complexity %q", *p.ExplanationComplexity)
		}
		current.ExplanationComplexity = *p.ExplanationComplexity
	}
	if p.AllowedOrigins != nil {
		current.AllowedOrigins = p.AllowedOrigins
	}

	origins, err := json.Marshal(orEmpty(current.AllowedOrigins))
	if err != nil {
		return nil, fmt.Errorf("marshal origins: %w", err)
	}

	row := s.db.QueryRow(ctx,
		`UPDATE customers
		 SET name = $2, openai_enabled = $3, system_prompt = $4, explanation_complexity = $5, allowed_origins = $6, updated_at = now()
		 WHERE customer_id = $1
		 RETURNING customer_id, name, openai_enabled, system_prompt, explanation_complexity, allowed_origins, created_at, updated_at`,
		customerID, current.Name, current.OpenAIEnabled, current.SystemPrompt, current.ExplanationComplexity, origins,
	)
	updated, err := scanCustomer(row)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, customerID)
	return updated, nil
}

// Delete removes the customer; documents and chunks cascade at the schema
// level.
func (s *Service) Delete(ctx context.Context, customerID string) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM customers WHERE customer_id = $1", customerID)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx, customerID)
	return nil
}

func (s *Service) getUncached(ctx context.Context, customerID string) (*models.Customer, error) {
	row := s.db.QueryRow(ctx,
		`SELECT customer_id, name, openai_enabled, system_prompt, explanation_complexity, allowed_origins, created_at, updated_at
		 FROM customers WHERE customer_id = $1`,
		customerID,
	)
	return scanCustomer(row)
}

func (s *Service) invalidate(ctx context.Context, customerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey(customerID)); err != nil {
		slog.Warn("customer cache invalidation failed", "customer", customerID, "error", err)
	}
}

func cacheKey(customerID string) string {
	return "customer:" + customerID
}

func scanCustomer(row pgx.Row) (*models.Customer, error) {
	var c models.Customer
	var origins []byte
	err := row.Scan(&c.CustomerID, &c.Name, &c.OpenAIEnabled, &c.SystemPrompt,
		&c.ExplanationComplexity, &origins, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan customer: %w", err)
	}
	if len(origins) > 0 {
		if err := json.Unmarshal(origins, &c.AllowedOrigins); err != nil {
			return nil, fmt.Errorf("decode allowed_origins: %w", err)
		}
	}
	return &c, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
