package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/passionfruits-net/docchat/internal/api/handlers"
	"github.com/passionfruits-net/docchat/internal/api/middleware"
	"github.com/passionfruits-net/docchat/internal/auth"
	"github.com/passionfruits-net/docchat/internal/cache"
	"github.com/passionfruits-net/docchat/internal/config"
	"github.com/passionfruits-net/docchat/internal/document"
	"github.com/passionfruits-net/docchat/internal/embedding"
	"github.com/passionfruits-net/docchat/internal/llm"
	"github.com/passionfruits-net/docchat/internal/queue"
	"github.com/passionfruits-net/docchat/internal/rag"
	"github.com/passionfruits-net/docchat/internal/settings"
	"github.com/passionfruits-net/docchat/internal/storage"
	"github.com/passionfruits-net/docchat/internal/tenant"
	"github.com/passionfruits-net/docchat/internal/usage"
	"github.com/passionfruits-net/docchat/internal/vectorstore"
	"github.com/passionfruits-net/docchat/internal/websearch"
)

type Router struct {
	mux   *chi.Mux
	db    *pgxpool.Pool
	cache *cache.Cache
	cfg   *config.Config
	llmGW llm.Gateway
}

func NewRouter(db *pgxpool.Pool, c *cache.Cache, cfg *config.Config) *Router {
	return &Router{
		mux:   chi.NewRouter(),
		db:    db,
		cache: c,
		cfg:   cfg,
		llmGW: llm.NewGateway(cfg.LLM),
	}
}

func (rt *Router) Setup() (http.Handler, error) {
	r := rt.mux

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(100, 200)
	r.Use(rl.Limit)

	// Health endpoints (no auth)
	health := handlers.NewHealthHandler(rt.db)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	// Initialize services
	disk, err := storage.NewDisk(rt.cfg.Storage.UploadDir)
	if err != nil {
		return nil, err
	}

	tenantSvc := tenant.NewService(rt.db, rt.cache)
	settingsSvc := settings.NewService(rt.db)
	usageSvc := usage.NewService(rt.db)
	authSvc := auth.NewService(rt.cfg.Auth)
	queueClient := queue.NewClient(rt.cfg.Redis)
	docSvc := document.NewService(rt.db, disk, queueClient)

	chunkStore := vectorstore.NewPgStore(rt.db)
	embedSvc := embedding.NewService(rt.llmGW, usageSvc, rt.cfg.LLM.EmbeddingModel)
	retriever := rag.NewRetriever(embedSvc, chunkStore)

	var pinger rag.Pinger
	if p, err := rt.llmGW.Provider("ollama"); err == nil {
		if op, ok := p.(*llm.OllamaProvider); ok {
			pinger = op
		}
	}

	composer := rag.NewComposer(rag.ComposerOptions{
		Retriever:  retriever,
		Gateway:    rt.llmGW,
		Search:     websearch.NewClient(rt.cfg.Search),
		Usage:      usageSvc,
		ChatModel:  rt.cfg.LLM.ChatModel,
		LocalModel: rt.cfg.LLM.OllamaModel,
		LocalPing:  pinger,
	})

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Public chat endpoint: origin validation happens per customer
		// inside the handler.
		chatH := handlers.NewChatHandler(composer, tenantSvc, settingsSvc, rt.cfg.LLM.LocalEnabled)
		r.Post("/chat", chatH.Chat)

		authH := handlers.NewAuthHandler(authSvc)
		r.Post("/auth/login", authH.Login)

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(authSvc.Middleware)

			docH := handlers.NewDocumentHandler(docSvc)
			r.Route("/documents", func(r chi.Router) {
				r.Post("/", docH.Upload)
				r.Get("/", docH.List)
				r.Get("/{id}/status", docH.Status)
				r.Delete("/{id}", docH.Delete)
			})

			custH := handlers.NewCustomerHandler(tenantSvc)
			r.Route("/customers", func(r chi.Router) {
				r.Post("/", custH.Create)
				r.Get("/", custH.List)
				r.Get("/{id}", custH.Get)
				r.Put("/{id}", custH.Update)
				r.Delete("/{id}", custH.Delete)
			})

			usageH := handlers.NewUsageHandler(usageSvc)
			r.Route("/usage", func(r chi.Router) {
				r.Get("/summary", usageH.Summary)
				r.Get("/daily", usageH.Daily)
				r.Get("/total", usageH.Total)
			})

			settingsH := handlers.NewSettingsHandler(settingsSvc)
			r.Route("/settings", func(r chi.Router) {
				r.Get("/", settingsH.List)
				r.Put("/", settingsH.Set)
			})
		})
	})

	return r, nil
}
