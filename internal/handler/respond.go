package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/roamkart/roamkart/internal/domain/cart"
	"github.com/roamkart/roamkart/internal/domain/delivery"
	"github.com/roamkart/roamkart/internal/domain/livestream"
	"github.com/roamkart/roamkart/internal/domain/order"
	"github.com/roamkart/roamkart/internal/domain/parcel"
	"github.com/roamkart/roamkart/internal/domain/product"
	"github.com/roamkart/roamkart/internal/domain/route"
)

// errorResponse is the JSON body for every non-2xx outcome.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Code: status, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondDomainError maps domain errors to outcome responses. Unknown errors
// are logged and become opaque 500s.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, product.ErrNotFound):
		respondError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "cart item not found")
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, delivery.ErrNotFound):
		respondError(w, http.StatusNotFound, "delivery not found")
	case errors.Is(err, parcel.ErrNotFound):
		respondError(w, http.StatusNotFound, "parcel not found")
	case errors.Is(err, route.ErrNotFound):
		respondError(w, http.StatusNotFound, "route not found")
	case errors.Is(err, livestream.ErrNotFound):
		respondError(w, http.StatusNotFound, "livestream not found")
	case errors.Is(err, cart.ErrOutOfStock):
		respondError(w, http.StatusConflict, "product is out of stock")
	case errors.Is(err, cart.ErrLimitReached):
		respondError(w, http.StatusConflict, "quantity limit reached")
	case errors.Is(err, order.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, order.ErrNotAuthenticated):
		respondError(w, http.StatusUnauthorized, "please login to checkout")
	default:
		var (
			stockErr  *order.InsufficientStockError
			parcelErr *parcel.RequestError
		)
		if errors.As(err, &stockErr) {
			respondError(w, http.StatusConflict, stockErr.Error())
			return
		}
		if errors.As(err, &parcelErr) {
			respondError(w, http.StatusUnprocessableEntity, parcelErr.Error())
			return
		}
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
