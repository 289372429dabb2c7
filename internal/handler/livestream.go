package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/roamkart/roamkart/internal/domain/livestream"
)

// livestreamResponse is the wire shape of a livestream session.
type livestreamResponse struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Seller    string     `json:"seller"`
	Status    string     `json:"status"`
	StartedAt time.Time  `json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
}

func toLivestreamResponse(ls livestream.Livestream) livestreamResponse {
	return livestreamResponse{
		ID:        ls.ID,
		Title:     ls.Title,
		Seller:    ls.Seller,
		Status:    string(ls.Status),
		StartedAt: ls.StartedAt,
		EndedAt:   ls.EndedAt,
	}
}

// ListLivestreams returns livestream sessions. ?live=true narrows to the
// ones currently on air.
func (h *Handler) ListLivestreams(w http.ResponseWriter, r *http.Request) {
	liveOnly := r.URL.Query().Get("live") == "true"

	streams, err := h.livestreams.List(r.Context(), liveOnly)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]livestreamResponse, len(streams))
	for i, ls := range streams {
		out[i] = toLivestreamResponse(ls)
	}
	respondJSON(w, http.StatusOK, out)
}

// StartLivestream opens a new live session.
func (h *Handler) StartLivestream(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title  string `json:"title"`
		Seller string `json:"seller"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Title == "" || req.Seller == "" {
		respondError(w, http.StatusUnprocessableEntity, "title and seller required")
		return
	}

	ls := &livestream.Livestream{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Seller:    req.Seller,
		Status:    livestream.StatusLive,
		StartedAt: time.Now(),
	}
	if err := h.livestreams.Create(r.Context(), ls); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toLivestreamResponse(*ls))
}

// EndLivestream marks a live session as ended. Ending a stream twice is a
// no-op that still returns the stream.
func (h *Handler) EndLivestream(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := h.livestreams.End(r.Context(), id, time.Now()); err != nil && !errors.Is(err, livestream.ErrNotFound) {
		respondDomainError(w, r, err)
		return
	}

	// End affects zero rows both for a missing stream and an already-ended
	// one; the lookup settles which.
	ls, err := h.livestreams.GetByID(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toLivestreamResponse(*ls))
}
