package handler

import (
	"net/http"

	"github.com/roamkart/roamkart/internal/domain/product"
)

// Weather returns a generated weather outlook for one route stop.
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request) {
	stop := r.URL.Query().Get("stop")
	if stop == "" {
		respondError(w, http.StatusBadRequest, "stop query parameter required")
		return
	}

	respondJSON(w, http.StatusOK, h.generator.Weather(r.Context(), stop))
}

// Recommendations returns generated product picks from the active catalog.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), product.Filter{})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	respondJSON(w, http.StatusOK, h.generator.Recommendations(r.Context(), names))
}

// PromoNotification drafts push notification copy for an admin-given subject.
func (h *Handler) PromoNotification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Subject string `json:"subject"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Subject == "" {
		respondError(w, http.StatusBadRequest, "subject required")
		return
	}

	respondJSON(w, http.StatusOK, h.generator.Promo(r.Context(), req.Subject))
}
