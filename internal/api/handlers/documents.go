package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/passionfruits-net/docchat/internal/document"
)

type DocumentHandler struct {
	svc *document.Service
}

func NewDocumentHandler(svc *document.Service) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil { // 32MB max
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	customerID := r.FormValue("customerId")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customerId is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	doc, err := h.svc.Upload(r.Context(), customerID, header.Filename, header.Header.Get("Content-Type"), file)
	if errors.Is(err, document.ErrUnsupportedType) {
		writeError(w, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customerId is required")
		return
	}

	docs, err := h.svc.List(r.Context(), customerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
}

func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	id, customerID, ok := h.params(w, r)
	if !ok {
		return
	}

	doc, err := h.svc.Get(r.Context(), customerID, id)
	if errors.Is(err, document.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": doc.ID.String(), "status": doc.Status})
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, customerID, ok := h.params(w, r)
	if !ok {
		return
	}

	err := h.svc.Delete(r.Context(), customerID, id)
	if errors.Is(err, document.ErrNotFound) {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *DocumentHandler) params(w http.ResponseWriter, r *http.Request) (uuid.UUID, string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document ID")
		return uuid.Nil, "", false
	}

	customerID := r.URL.Query().Get("customerId")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customerId is required")
		return uuid.Nil, "", false
	}
	return id, customerID, true
}
