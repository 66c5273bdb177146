package handlers

import (
	"net/http"
	"strconv"

	"github.com/passionfruits-net/docchat/internal/usage"
)

type UsageHandler struct {
	svc *usage.Service
}

func NewUsageHandler(svc *usage.Service) *UsageHandler {
	return &UsageHandler{svc: svc}
}

func (h *UsageHandler) Summary(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	summaries, err := h.svc.Summary(r.Context(), customerID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"summary": summaries})
}

func (h *UsageHandler) Daily(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	costs, err := h.svc.DailyCosts(r.Context(), customerID, days)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"daily": costs})
}

func (h *UsageHandler) Total(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")

	total, err := h.svc.TotalCost(r.Context(), customerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"total_cost": total})
}
