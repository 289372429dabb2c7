package handler

import (
	"net/http"

	"github.com/roamkart/roamkart/internal/domain/cart"
)

// cartLineResponse is one priced cart line.
type cartLineResponse struct {
	Product         productResponse `json:"product"`
	Quantity        int             `json:"quantity"`
	OriginalPrice   float64         `json:"originalPrice"`
	EffectivePrice  float64         `json:"effectivePrice"`
	DiscountApplied bool            `json:"discountApplied"`
	DiscountType    string          `json:"discountType,omitempty"`
	LineTotal       float64         `json:"lineTotal"`
}

// cartResponse is the fully priced cart.
type cartResponse struct {
	Items    []cartLineResponse `json:"items"`
	Subtotal float64            `json:"subtotal"`
	Discount float64            `json:"discount"`
	VAT      float64            `json:"vat"`
	Total    float64            `json:"total"`
}

func toCartResponse(v *cart.View) cartResponse {
	resp := cartResponse{
		Items:    make([]cartLineResponse, len(v.Items)),
		Subtotal: v.Totals.Subtotal.InexactFloat64(),
		Discount: v.Totals.Discount.InexactFloat64(),
		VAT:      v.Totals.VAT.InexactFloat64(),
		Total:    v.Totals.Total.InexactFloat64(),
	}
	for i, item := range v.Items {
		resp.Items[i] = cartLineResponse{
			Product:         toProductResponse(item.Product),
			Quantity:        item.Quantity,
			OriginalPrice:   item.Quote.OriginalPrice.InexactFloat64(),
			EffectivePrice:  item.Quote.EffectivePrice.InexactFloat64(),
			DiscountApplied: item.Quote.DiscountApplied,
			DiscountType:    string(item.Quote.DiscountType),
			LineTotal:       item.Quote.LineTotal(item.Quantity).InexactFloat64(),
		}
	}
	return resp
}

// GetCart returns the caller's priced cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	view, err := h.carts.Get(r.Context(), info.ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(view))
}

// AddCartItem adds one unit of a product to the caller's cart.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	var req struct {
		ProductID string `json:"productId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "productId required")
		return
	}

	item, err := h.carts.AddItem(r.Context(), info.ID, req.ProductID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"productId": item.ProductID,
		"quantity":  item.Quantity,
	})
}

// UpdateCartItem sets a cart line's quantity exactly; zero removes it.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	var req struct {
		Quantity int `json:"quantity"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.carts.UpdateQuantity(r.Context(), info.ID, r.PathValue("productID"), req.Quantity); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveCartItem deletes a cart line.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	if err := h.carts.RemoveItem(r.Context(), info.ID, r.PathValue("productID")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearCart empties the caller's cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	info, _ := IdentityFromContext(r.Context())

	if err := h.carts.Clear(r.Context(), info.ID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
