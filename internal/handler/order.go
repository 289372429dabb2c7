package handler

import (
	"net/http"
	"time"

	"github.com/roamkart/roamkart/internal/domain/delivery"
	"github.com/roamkart/roamkart/internal/domain/order"
)

// orderResponse is the wire shape of an order.
type orderResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	ProductID   string    `json:"productId"`
	ProductName string    `json:"productName"`
	Quantity    int       `json:"quantity"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	Date        time.Time `json:"date"`
}

func toOrderResponse(o order.Order) orderResponse {
	return orderResponse{
		ID:          o.ID,
		UserID:      o.Customer(),
		ProductID:   o.ProductID,
		ProductName: o.ProductName,
		Quantity:    o.Quantity,
		Amount:      o.Amount.InexactFloat64(),
		Status:      string(o.Status),
		Date:        o.CreatedAt,
	}
}

func toOrderResponses(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i, o := range orders {
		out[i] = toOrderResponse(o)
	}
	return out
}

// Checkout converts the caller's cart into Pending orders.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	orders, err := h.orders.Checkout(r.Context(), info.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderResponses(orders))
}

// ListMyOrders returns the caller's orders, newest first.
func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	orders, err := h.orderRepo.ListByUser(r.Context(), info.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

// ListOrders returns every order for the admin dashboard.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderRepo.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponses(orders))
}

// SetOrderStatus applies an admin-picked status; "On the Way" spawns the
// order's delivery record.
func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	o, err := h.orders.SetStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderResponse(*o))
}

// deliveryResponse is the wire shape of a delivery.
type deliveryResponse struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	CustomerName string  `json:"customerName"`
	Address      string  `json:"address"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Status       string  `json:"status"`
	Driver       string  `json:"driver"`
}

func toDeliveryResponse(d delivery.Delivery) deliveryResponse {
	return deliveryResponse{
		ID:           d.ID,
		OrderID:      d.OrderID,
		CustomerName: d.CustomerName,
		Address:      d.Address,
		Lat:          d.Lat,
		Lon:          d.Lon,
		Status:       string(d.Status),
		Driver:       d.Driver,
	}
}

// ListDeliveries returns every delivery for the admin dashboard.
func (h *Handler) ListDeliveries(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.deliveries.List(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]deliveryResponse, len(deliveries))
	for i, d := range deliveries {
		out[i] = toDeliveryResponse(d)
	}
	respondJSON(w, http.StatusOK, out)
}

// SetDeliveryStatus applies an admin-picked delivery status, which feeds
// back into the owning order's status.
func (h *Handler) SetDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	status, err := delivery.ParseStatus(req.Status)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	d, err := h.orders.SetDeliveryStatus(r.Context(), r.PathValue("id"), status)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDeliveryResponse(*d))
}

// AssignDriver updates a delivery's driver and destination details.
func (h *Handler) AssignDriver(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Driver  string  `json:"driver"`
		Address string  `json:"address"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	d, err := h.orders.AssignDriver(r.Context(), r.PathValue("id"), req.Driver, req.Address, req.Lat, req.Lon)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toDeliveryResponse(*d))
}
