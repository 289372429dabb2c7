package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Status enumerates the lifecycle states of a catalog product.
type Status string

const (
	// StatusActive marks a product as sellable and visible in the storefront.
	StatusActive Status = "active"
	// StatusArchived hides a product from the storefront and blocks cart adds.
	StatusArchived Status = "archived"
)

// Tags recognised by the storefront. TagBulk and TagOnSale drive pricing;
// TagFeatured and TagBestSeller only affect presentation.
const (
	TagOnSale     = "On Sale"
	TagBulk       = "Cheap in Bulk"
	TagFeatured   = "Featured"
	TagBestSeller = "Best Seller"
)

// Product represents a catalog item carried on the seller's route.
// Quantity is the live sellable stock; checkout decrements it.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    decimal.Decimal
	Cost     decimal.Decimal
	Quantity int
	Unit     string
	Status   Status
	Tags     []string

	// BulkQuantity/BulkPrice are set only for "Cheap in Bulk" products.
	BulkQuantity *int
	BulkPrice    *decimal.Decimal
}

// HasTag reports whether the product carries the given tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Active reports whether the product is sellable.
func (p *Product) Active() bool {
	return p.Status == StatusActive
}

// Filter narrows catalog listings. Zero values match everything.
type Filter struct {
	Category        string
	Tag             string
	IncludeArchived bool
}

// Repository defines persistence operations for the product catalog.
type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Archive(ctx context.Context, id string) error
}
