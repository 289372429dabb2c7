package handler

import (
	"net/http"
	"time"

	"github.com/roamkart/roamkart/internal/domain/parcel"
)

// parcelResponse is the wire shape of a parcel.
type parcelResponse struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Receiver  string    `json:"receiver"`
	FromStop  string    `json:"fromStop"`
	ToStop    string    `json:"toStop"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func toParcelResponse(p parcel.Parcel) parcelResponse {
	return parcelResponse{
		ID:        p.ID,
		Sender:    p.Sender,
		Receiver:  p.Receiver,
		FromStop:  p.FromStop,
		ToStop:    p.ToStop,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
	}
}

// CreateParcel accepts a customer courier request between two route stops.
func (h *Handler) CreateParcel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sender   string `json:"sender"`
		Receiver string `json:"receiver"`
		FromStop string `json:"fromStop"`
		ToStop   string `json:"toStop"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	p, err := h.parcels.Create(r.Context(), parcel.Request{
		Sender:   req.Sender,
		Receiver: req.Receiver,
		FromStop: req.FromStop,
		ToStop:   req.ToStop,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toParcelResponse(*p))
}

// GetParcel returns a parcel so customers can track it by ID.
func (h *Handler) GetParcel(w http.ResponseWriter, r *http.Request) {
	p, err := h.parcelRepo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toParcelResponse(*p))
}

// ListParcels returns every parcel for the admin dashboard.
func (h *Handler) ListParcels(w http.ResponseWriter, r *http.Request) {
	parcels, err := h.parcelRepo.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]parcelResponse, len(parcels))
	for i, p := range parcels {
		out[i] = toParcelResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// SetParcelStatus applies an admin-picked parcel status.
func (h *Handler) SetParcelStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := parcel.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	p, err := h.parcels.SetStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toParcelResponse(*p))
}
