package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/product"
)

// Sentinel errors for checkout and status updates.
var (
	ErrNotFound         = errors.New("order not found")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNotAuthenticated = errors.New("authentication required")
)

// InsufficientStockError indicates a cart line asked for more units than the
// product had left at commit time. The whole checkout is rolled back.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// Status enumerates order states. The nominal progression is Pending →
// Confirmed → On the Way → Delivered, but admins may set any status in any
// sequence (manual override); only the name is validated.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusOnTheWay  Status = "On the Way"
	StatusDelivered Status = "Delivered"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusOnTheWay, StatusDelivered:
		return Status(s), nil
	}
	return "", errors.Errorf("invalid order status %q", s)
}

// GuestUser is the display identity for orders without an account.
const GuestUser = "Guest"

// Order is one purchased cart line. Amount is frozen at checkout time
// (effective price × quantity) and never recalculated, even if the product's
// price changes later.
type Order struct {
	ID          string
	UserID      *string
	ProductID   string
	ProductName string
	Quantity    int
	Amount      decimal.Decimal
	Status      Status
	CreatedAt   time.Time
}

// Customer returns the display identity for the order's buyer.
func (o *Order) Customer() string {
	if o.UserID == nil || *o.UserID == "" {
		return GuestUser
	}
	return *o.UserID
}

// Repository defines persistence operations for orders.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
	List(ctx context.Context) ([]Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// PriceFunc computes the effective unit price for a product at the given
// quantity. The checkout store calls it while holding the product row locks
// so amounts reflect the exact stock state being committed.
type PriceFunc func(p *product.Product, quantity int) decimal.Decimal

// CheckoutStore converts a user's cart into orders inside one transaction:
// lock product rows, re-verify stock, insert one Pending order per line,
// decrement stock, clear the cart. Stock shortfall on any line fails the
// whole checkout with *InsufficientStockError and leaves no partial state.
type CheckoutStore interface {
	Checkout(ctx context.Context, userID string, price PriceFunc) ([]Order, error)
}
