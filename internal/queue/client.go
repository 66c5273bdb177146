package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/passionfruits-net/docchat/internal/config"
)

// Enqueuer is the producer side of the ingestion queue.
type Enqueuer interface {
	EnqueueDocumentIngest(ctx context.Context, p DocumentIngestPayload) error
}

type Client struct {
	inner *asynq.Client
}

func NewClient(cfg config.RedisConfig) *Client {
	return &Client{inner: asynq.NewClient(RedisOpt(cfg))}
}

func (c *Client) EnqueueDocumentIngest(ctx context.Context, p DocumentIngestPayload) error {
	task, err := NewDocumentIngestTask(p)
	if err != nil {
		return err
	}

	info, err := c.inner.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue ingest task: %w", err)
	}

	slog.Info("ingest task enqueued", "task_id", info.ID, "document", p.DocumentID, "customer", p.CustomerID)
	return nil
}

func (c *Client) Close() error {
	return c.inner.Close()
}

func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}
