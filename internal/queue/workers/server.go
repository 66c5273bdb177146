package workers

import (
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/passionfruits-net/docchat/internal/config"
	"github.com/passionfruits-net/docchat/internal/queue"
)

// NewServer builds the worker-side asynq server and mux.
func NewServer(cfg config.RedisConfig, ingest *IngestHandler) (*asynq.Server, *asynq.ServeMux) {
	srv := asynq.NewServer(queue.RedisOpt(cfg), asynq.Config{
		Concurrency: 4,
		Logger:      slogAdapter{},
	})

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeDocumentIngest, ingest)

	return srv, mux
}

// slogAdapter bridges asynq's logger interface onto slog.
type slogAdapter struct{}

func (slogAdapter) Debug(args ...interface{}) { slog.Debug(fmt.Sprint(args...)) }
func (slogAdapter) Info(args ...interface{})  { slog.Info(fmt.Sprint(args...)) }
func (slogAdapter) Warn(args ...interface{})  { slog.Warn(fmt.Sprint(args...)) }
func (slogAdapter) Error(args ...interface{}) { slog.Error(fmt.Sprint(args...)) }
func (slogAdapter) Fatal(args ...interface{}) { slog.Error(fmt.Sprint(args...)) }
