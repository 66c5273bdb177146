package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/passionfruits-net/docchat/internal/config"
	"github.com/passionfruits-net/docchat/internal/database"
	"github.com/passionfruits-net/docchat/internal/document"
	"github.com/passionfruits-net/docchat/internal/embedding"
	"github.com/passionfruits-net/docchat/internal/llm"
	"github.com/passionfruits-net/docchat/internal/queue"
	"github.com/passionfruits-net/docchat/internal/queue/workers"
	"github.com/passionfruits-net/docchat/internal/storage"
	"github.com/passionfruits-net/docchat/internal/usage"
	"github.com/passionfruits-net/docchat/internal/vectorstore"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	disk, err := storage.NewDisk(cfg.Storage.UploadDir)
	if err != nil {
		slog.Error("storage setup failed", "error", err)
		os.Exit(1)
	}

	gateway := llm.NewGateway(cfg.LLM)
	usageSvc := usage.NewService(db)
	embedSvc := embedding.NewService(gateway, usageSvc, cfg.LLM.EmbeddingModel)
	docSvc := document.NewService(db, disk, queue.NewClient(cfg.Redis))
	chunkStore := vectorstore.NewPgStore(db)

	ingest := workers.NewIngestHandler(docSvc, disk, embedSvc, chunkStore)
	srv, mux := workers.NewServer(cfg.Redis, ingest)

	slog.Info("starting ingestion worker")
	if err := srv.Run(mux); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
