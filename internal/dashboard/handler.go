package dashboard

import (
	"encoding/json"
	"net/http"

	"github.com/apotekanet/crm-api/internal/gateway"
)

// Handler serves GET /dashboard/stats.
type Handler struct {
	aggregator *Aggregator
}

func NewHandler(gw gateway.Gateway) *Handler {
	return &Handler{aggregator: New(gw)}
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats := h.aggregator.Collect(r.Context())
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
