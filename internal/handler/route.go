package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/roamkart/roamkart/internal/domain/route"
)

// stopResponse is the wire shape of a route stop.
type stopResponse struct {
	Name   string  `json:"name"`
	Date   string  `json:"date"`
	Time   string  `json:"time"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
	Passed bool    `json:"passed"`
}

// routeResponse is the wire shape of a route with its expanded stops.
type routeResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	IsRoundTrip bool           `json:"isRoundTrip"`
	Stops       []stopResponse `json:"stops"`
}

func toRouteResponse(rt route.Route) routeResponse {
	resp := routeResponse{
		ID:          rt.ID,
		Name:        rt.Name,
		IsRoundTrip: rt.IsRoundTrip,
		Stops:       make([]stopResponse, len(rt.Stops)),
	}
	for i, s := range rt.Stops {
		resp.Stops[i] = stopResponse{
			Name:   s.Name,
			Date:   s.Date,
			Time:   s.Time,
			Lat:    s.Lat,
			Lon:    s.Lon,
			Passed: s.Passed,
		}
	}
	return resp
}

// ListRoutes returns the public itinerary.
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := h.routes.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]routeResponse, len(routes))
	for i, rt := range routes {
		out[i] = toRouteResponse(rt)
	}
	respondJSON(w, http.StatusOK, out)
}

// GetRoute returns one route with its stops.
func (h *Handler) GetRoute(w http.ResponseWriter, r *http.Request) {
	rt, err := h.routes.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toRouteResponse(*rt))
}

// CreateRoute stores a new itinerary. Round-trip routes are expanded before
// persisting: the stop sequence is mirrored minus the turnaround point.
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		IsRoundTrip bool   `json:"isRoundTrip"`
		Stops       []struct {
			Name string  `json:"name"`
			Date string  `json:"date"`
			Time string  `json:"time"`
			Lat  float64 `json:"lat"`
			Lon  float64 `json:"lon"`
		} `json:"stops"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Stops) == 0 {
		respondError(w, http.StatusUnprocessableEntity, "at least one stop required")
		return
	}

	drafts := make([]route.Stop, len(req.Stops))
	for i, s := range req.Stops {
		if s.Name == "" {
			respondError(w, http.StatusUnprocessableEntity, "stop name required")
			return
		}
		drafts[i] = route.Stop{
			Name: s.Name,
			Date: s.Date,
			Time: s.Time,
			Lat:  s.Lat,
			Lon:  s.Lon,
		}
	}

	rt := &route.Route{
		ID:          uuid.New().String(),
		Name:        req.Name,
		IsRoundTrip: req.IsRoundTrip,
		Stops:       route.ExpandStops(drafts, req.IsRoundTrip),
		CreatedAt:   time.Now(),
	}
	if err := h.routes.Create(r.Context(), rt); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRouteResponse(*rt))
}

// SetStopPassed toggles the passed flag of one stop in the expanded
// sequence.
func (h *Handler) SetStopPassed(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(r.PathValue("position"))
	if err != nil || position < 0 {
		respondError(w, http.StatusBadRequest, "invalid stop position")
		return
	}

	var req struct {
		Passed bool `json:"passed"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.routes.SetStopPassed(r.Context(), r.PathValue("id"), position, req.Passed); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
