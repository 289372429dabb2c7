package parcel

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested parcel does not exist.
var ErrNotFound = errors.New("parcel not found")

// Status enumerates parcel states.
type Status string

const (
	StatusPending        Status = "Pending"
	StatusOnTheWay       Status = "On the Way"
	StatusReadyForPickup Status = "Ready for Pickup"
	StatusCompleted      Status = "Completed"
)

// ParseStatus validates a status name.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusOnTheWay, StatusReadyForPickup, StatusCompleted:
		return Status(s), nil
	}
	return "", errors.Errorf("invalid parcel status %q", s)
}

// Parcel is a user-to-user courier request between two named route stops.
// It is independent of product orders.
type Parcel struct {
	ID        string
	Sender    string
	Receiver  string
	FromStop  string
	ToStop    string
	Status    Status
	CreatedAt time.Time
}

// Repository defines persistence operations for parcels.
type Repository interface {
	Create(ctx context.Context, p *Parcel) error
	GetByID(ctx context.Context, id string) (*Parcel, error)
	List(ctx context.Context) ([]Parcel, error)
	UpdateStatus(ctx context.Context, id string, status Status) error
}
