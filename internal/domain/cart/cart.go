package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/roamkart/roamkart/internal/domain/pricing"
	"github.com/roamkart/roamkart/internal/domain/product"
)

// Outcome errors for cart mutations. Each one aborts the requested change
// and maps to a user-facing message; none of them is fatal.
var (
	ErrOutOfStock   = errors.New("product is out of stock")
	ErrLimitReached = errors.New("quantity limit reached")
	ErrItemNotFound = errors.New("cart item not found")
)

// Item is one cart line: a product reference plus the quantity pending
// purchase. Quantity never exceeds the product's live stock at the moment
// the line was inserted or last updated.
type Item struct {
	UserID    string
	ProductID string
	Quantity  int
	AddedAt   time.Time
}

// PricedItem is a cart line joined with live product data and its quote.
type PricedItem struct {
	Product  product.Product
	Quantity int
	Quote    pricing.Quote
}

// View is a fully priced cart as presented to the storefront.
type View struct {
	Items  []PricedItem
	Totals pricing.Totals
}

// Repository defines persistence operations for cart lines.
type Repository interface {
	List(ctx context.Context, userID string) ([]Item, error)
	Get(ctx context.Context, userID, productID string) (*Item, error)
	Upsert(ctx context.Context, item *Item) error
	Delete(ctx context.Context, userID, productID string) error
	Clear(ctx context.Context, userID string) error
}
