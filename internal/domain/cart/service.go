package cart

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/pricing"
	"github.com/roamkart/roamkart/internal/domain/product"
)

// Service mediates cart mutations against live product stock.
type Service struct {
	items    Repository
	products product.Repository
	vatRate  decimal.Decimal
}

// NewService creates a cart Service. vatRate is the fraction applied on top
// of the subtotal (e.g. 0.12 for 12% VAT).
func NewService(items Repository, products product.Repository, vatRate decimal.Decimal) *Service {
	return &Service{
		items:    items,
		products: products,
		vatRate:  vatRate,
	}
}

// AddItem inserts a new line with quantity 1 or increments an existing one.
// It returns ErrOutOfStock when the product has no live stock and
// ErrLimitReached when the line already holds every remaining unit.
// Archived products behave as not found.
func (s *Service) AddItem(ctx context.Context, userID, productID string) (*Item, error) {
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.Active() {
		return nil, product.ErrNotFound
	}
	if p.Quantity <= 0 {
		return nil, ErrOutOfStock
	}

	item, err := s.items.Get(ctx, userID, productID)
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		return nil, errors.Wrap(err, "get cart item")
	}

	if item == nil {
		item = &Item{
			UserID:    userID,
			ProductID: productID,
			Quantity:  1,
			AddedAt:   time.Now(),
		}
	} else {
		if item.Quantity >= p.Quantity {
			return nil, ErrLimitReached
		}
		item.Quantity++
		item.AddedAt = time.Now()
	}

	if err := s.items.Upsert(ctx, item); err != nil {
		return nil, errors.Wrap(err, "upsert cart item")
	}
	return item, nil
}

// UpdateQuantity sets a line's quantity exactly. A quantity of zero or less
// removes the line. A quantity above live stock returns ErrLimitReached and
// leaves the line unchanged.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return s.items.Delete(ctx, userID, productID)
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > p.Quantity {
		return ErrLimitReached
	}

	item, err := s.items.Get(ctx, userID, productID)
	if err != nil {
		return err
	}

	item.Quantity = quantity
	item.AddedAt = time.Now()
	return s.items.Upsert(ctx, item)
}

// RemoveItem deletes a line unconditionally.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	return s.items.Delete(ctx, userID, productID)
}

// Clear empties the cart unconditionally.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.items.Clear(ctx, userID)
}

// Get returns the cart joined with live product data, per-line quotes, and
// totals. Lines whose product has vanished from the catalog are skipped.
func (s *Service) Get(ctx context.Context, userID string) (*View, error) {
	items, err := s.items.List(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}

	view := &View{Items: make([]PricedItem, 0, len(items))}
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		p, err := s.products.GetByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "get product %s", item.ProductID)
		}

		q := pricing.Resolve(p, item.Quantity)
		view.Items = append(view.Items, PricedItem{
			Product:  *p,
			Quantity: item.Quantity,
			Quote:    q,
		})
		lines = append(lines, pricing.Line{Quote: q, Quantity: item.Quantity})
	}

	view.Totals = pricing.Sum(lines, s.vatRate)
	return view, nil
}
