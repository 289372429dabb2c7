package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/product"
)

// productResponse is the wire shape of a catalog product.
type productResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	Cost         float64  `json:"cost"`
	Quantity     int      `json:"quantity"`
	Unit         string   `json:"unit"`
	Status       string   `json:"status"`
	Tags         []string `json:"tags"`
	BulkQuantity *int     `json:"bulkQuantity,omitempty"`
	BulkPrice    *float64 `json:"bulkPrice,omitempty"`
}

func toProductResponse(p product.Product) productResponse {
	resp := productResponse{
		ID:           p.ID,
		Name:         p.Name,
		Category:     p.Category,
		Price:        p.Price.InexactFloat64(),
		Cost:         p.Cost.InexactFloat64(),
		Quantity:     p.Quantity,
		Unit:         p.Unit,
		Status:       string(p.Status),
		Tags:         p.Tags,
		BulkQuantity: p.BulkQuantity,
	}
	if p.BulkPrice != nil {
		v := p.BulkPrice.InexactFloat64()
		resp.BulkPrice = &v
	}
	return resp
}

// ListProducts returns the storefront catalog, optionally filtered by the
// category and tag query parameters.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), product.Filter{
		Category: r.URL.Query().Get("category"),
		Tag:      r.URL.Query().Get("tag"),
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]productResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	respondJSON(w, http.StatusOK, out)
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

// productRequest is the admin create/update payload.
type productRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Price        string   `json:"price"`
	Cost         string   `json:"cost"`
	Quantity     int      `json:"quantity"`
	Unit         string   `json:"unit"`
	Status       string   `json:"status"`
	Tags         []string `json:"tags"`
	BulkQuantity *int     `json:"bulkQuantity"`
	BulkPrice    *string  `json:"bulkPrice"`
}

func (req *productRequest) toDomain(id string) (*product.Product, string) {
	if req.Name == "" {
		return nil, "name required"
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		return nil, "invalid price"
	}
	cost := decimal.Zero
	if req.Cost != "" {
		if cost, err = decimal.NewFromString(req.Cost); err != nil {
			return nil, "invalid cost"
		}
	}
	if req.Quantity < 0 {
		return nil, "quantity must not be negative"
	}

	status := product.StatusActive
	if req.Status != "" {
		switch product.Status(req.Status) {
		case product.StatusActive, product.StatusArchived:
			status = product.Status(req.Status)
		default:
			return nil, "invalid status"
		}
	}

	p := &product.Product{
		ID:           id,
		Name:         req.Name,
		Category:     req.Category,
		Price:        price,
		Cost:         cost,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		Status:       status,
		Tags:         req.Tags,
		BulkQuantity: req.BulkQuantity,
	}
	if p.Unit == "" {
		p.Unit = "pc"
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if req.BulkPrice != nil {
		bp, err := decimal.NewFromString(*req.BulkPrice)
		if err != nil || bp.IsNegative() {
			return nil, "invalid bulkPrice"
		}
		p.BulkPrice = &bp
	}
	if p.HasTag(product.TagBulk) && (p.BulkQuantity == nil || p.BulkPrice == nil) {
		return nil, "bulkQuantity and bulkPrice required for Cheap in Bulk products"
	}
	return p, ""
}

// CreateProduct adds a catalog product.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, msg := req.toDomain(uuid.New().String())
	if msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.products.Create(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toProductResponse(*p))
}

// UpdateProduct overwrites a catalog product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeBody(w, r, &req) {
		return
	}

	p, msg := req.toDomain(r.PathValue("id"))
	if msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	if err := h.products.Update(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductResponse(*p))
}

// ArchiveProduct hides a product from the storefront.
func (h *Handler) ArchiveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.products.Archive(r.Context(), r.PathValue("id")); err != nil {
		respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
