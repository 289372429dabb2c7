package delivery

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested delivery does not exist.
var ErrNotFound = errors.New("delivery not found")

// Status enumerates delivery states.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusOutForDelivery Status = "Out for Delivery"
	StatusCompleted      Status = "Completed"
)

// ParseStatus validates a status name. Transitions themselves are
// unconstrained admin picks, only the name is checked.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusOutForDelivery, StatusCompleted:
		return Status(s), nil
	}
	return "", errors.Errorf("invalid delivery status %q", s)
}

// Delivery is the last-mile record spawned by an order's "On the Way"
// transition. At most one exists per order.
type Delivery struct {
	ID           string
	OrderID      string
	CustomerName string
	Address      string
	Lat          float64
	Lon          float64
	Status       Status
	Driver       string
	CreatedAt    time.Time
}

// Repository defines persistence operations for deliveries.
type Repository interface {
	// CreateIfAbsent inserts the delivery unless one already exists for its
	// order. It reports whether a row was inserted, making the "On the Way"
	// side effect idempotent.
	CreateIfAbsent(ctx context.Context, d *Delivery) (bool, error)
	GetByID(ctx context.Context, id string) (*Delivery, error)
	GetByOrderID(ctx context.Context, orderID string) (*Delivery, error)
	List(ctx context.Context) ([]Delivery, error)
	Update(ctx context.Context, d *Delivery) error
}
