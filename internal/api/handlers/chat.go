package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/passionfruits-net/docchat/internal/api/middleware"
	"github.com/passionfruits-net/docchat/internal/rag"
	"github.com/passionfruits-net/docchat/internal/settings"
	"github.com/passionfruits-net/docchat/internal/tenant"
)

type ChatHandler struct {
	composer     *rag.Composer
	tenants      *tenant.Service
	settings     *settings.Service
	localEnabled bool
}

func NewChatHandler(composer *rag.Composer, tenants *tenant.Service, st *settings.Service, localEnabled bool) *ChatHandler {
	return &ChatHandler{composer: composer, tenants: tenants, settings: st, localEnabled: localEnabled}
}

type chatRequest struct {
	CustomerID            string `json:"customerId"`
	Message               string `json:"message"`
	IncludeGeneralAI      bool   `json:"includeGeneralAI"`
	ExplanationComplexity string `json:"explanationComplexity"`
}

// Chat streams an answer as server-sent events: content fragments first, then
// one terminal event with the deduplicated sources and the backend used.
// Validation failures are rejected before any stream is opened.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "customerId and message are required")
		return
	}

	cust, err := h.tenants.Get(r.Context(), req.CustomerID)
	if errors.Is(err, tenant.ErrNotFound) {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load customer")
		return
	}

	if !middleware.OriginAllowed(r.Header.Get("Origin"), cust.AllowedOrigins) {
		writeError(w, http.StatusForbidden, "origin not allowed")
		return
	}

	globalEnabled := h.settings.GetBool(r.Context(), settings.KeyOpenAIEnabledGlobally, true)

	events, err := h.composer.Answer(r.Context(), rag.Request{
		CustomerID:       req.CustomerID,
		Message:          req.Message,
		IncludeGeneralAI: req.IncludeGeneralAI,
		Complexity:       req.ExplanationComplexity,
		Tenant:           *cust,
		GlobalEnabled:    globalEnabled,
		LocalEnabled:     h.localEnabled,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for ev := range events {
		var payload any
		if ev.Done {
			payload = map[string]any{"done": true, "sources": ev.Sources, "backend": ev.Backend}
		} else {
			payload = map[string]string{"content": ev.Content}
		}

		data, err := json.Marshal(payload)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}
