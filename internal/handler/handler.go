// Package handler exposes the storefront and admin HTTP API. Handlers
// convert JSON requests to domain calls and map domain errors to
// outcome-style responses; business rules live in the domain services.
package handler

import (
	"net/http"

	"github.com/roamkart/roamkart/internal/content"
	"github.com/roamkart/roamkart/internal/domain/cart"
	"github.com/roamkart/roamkart/internal/domain/delivery"
	"github.com/roamkart/roamkart/internal/domain/livestream"
	"github.com/roamkart/roamkart/internal/domain/order"
	"github.com/roamkart/roamkart/internal/domain/parcel"
	"github.com/roamkart/roamkart/internal/domain/product"
	"github.com/roamkart/roamkart/internal/domain/route"
)

// Handler carries the service and repository dependencies for all endpoints.
type Handler struct {
	products    product.Repository
	carts       *cart.Service
	orders      *order.Service
	orderRepo   order.Repository
	deliveries  delivery.Repository
	parcels     *parcel.Service
	parcelRepo  parcel.Repository
	routes      route.Repository
	livestreams livestream.Repository
	generator   *content.Generator
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	products product.Repository,
	carts *cart.Service,
	orders *order.Service,
	orderRepo order.Repository,
	deliveries delivery.Repository,
	parcels *parcel.Service,
	parcelRepo parcel.Repository,
	routes route.Repository,
	livestreams livestream.Repository,
	generator *content.Generator,
) *Handler {
	return &Handler{
		products:    products,
		carts:       carts,
		orders:      orders,
		orderRepo:   orderRepo,
		deliveries:  deliveries,
		parcels:     parcels,
		parcelRepo:  parcelRepo,
		routes:      routes,
		livestreams: livestreams,
		generator:   generator,
	}
}

// Register mounts all API routes on the mux. sec guards endpoints that need
// an identity or the admin scope.
func (h *Handler) Register(mux *http.ServeMux, sec *Security) {
	// Storefront.
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)
	mux.HandleFunc("GET /api/routes", h.ListRoutes)
	mux.HandleFunc("GET /api/routes/{id}", h.GetRoute)
	mux.HandleFunc("GET /api/livestreams", h.ListLivestreams)
	mux.HandleFunc("GET /api/content/weather", h.Weather)
	mux.HandleFunc("GET /api/content/recommendations", h.Recommendations)

	// Cart and checkout require an identity.
	mux.Handle("GET /api/cart", sec.RequireAuth(h.GetCart))
	mux.Handle("POST /api/cart/items", sec.RequireAuth(h.AddCartItem))
	mux.Handle("PATCH /api/cart/items/{productID}", sec.RequireAuth(h.UpdateCartItem))
	mux.Handle("DELETE /api/cart/items/{productID}", sec.RequireAuth(h.RemoveCartItem))
	mux.Handle("DELETE /api/cart", sec.RequireAuth(h.ClearCart))
	mux.Handle("POST /api/checkout", sec.RequireAuth(h.Checkout))
	mux.Handle("GET /api/orders", sec.RequireAuth(h.ListMyOrders))

	// Parcels: anyone may request, admin manages.
	mux.HandleFunc("POST /api/parcels", h.CreateParcel)
	mux.HandleFunc("GET /api/parcels/{id}", h.GetParcel)

	// Admin.
	mux.Handle("POST /api/admin/products", sec.RequireAdmin(h.CreateProduct))
	mux.Handle("PUT /api/admin/products/{id}", sec.RequireAdmin(h.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", sec.RequireAdmin(h.ArchiveProduct))
	mux.Handle("GET /api/admin/orders", sec.RequireAdmin(h.ListOrders))
	mux.Handle("PATCH /api/admin/orders/{id}/status", sec.RequireAdmin(h.SetOrderStatus))
	mux.Handle("GET /api/admin/deliveries", sec.RequireAdmin(h.ListDeliveries))
	mux.Handle("PATCH /api/admin/deliveries/{id}/status", sec.RequireAdmin(h.SetDeliveryStatus))
	mux.Handle("PATCH /api/admin/deliveries/{id}", sec.RequireAdmin(h.AssignDriver))
	mux.Handle("GET /api/admin/parcels", sec.RequireAdmin(h.ListParcels))
	mux.Handle("PATCH /api/admin/parcels/{id}/status", sec.RequireAdmin(h.SetParcelStatus))
	mux.Handle("POST /api/admin/routes", sec.RequireAdmin(h.CreateRoute))
	mux.Handle("PATCH /api/admin/routes/{id}/stops/{position}", sec.RequireAdmin(h.SetStopPassed))
	mux.Handle("POST /api/admin/livestreams", sec.RequireAdmin(h.StartLivestream))
	mux.Handle("POST /api/admin/livestreams/{id}/end", sec.RequireAdmin(h.EndLivestream))
	mux.Handle("POST /api/admin/content/notifications", sec.RequireAdmin(h.PromoNotification))
}
