package livestream

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested livestream does not exist.
var ErrNotFound = errors.New("livestream not found")

// Status enumerates livestream states.
type Status string

const (
	StatusLive  Status = "live"
	StatusEnded Status = "ended"
)

// Livestream is broadcast metadata only; video delivery happens elsewhere.
type Livestream struct {
	ID        string
	Title     string
	Seller    string
	Status    Status
	StartedAt time.Time
	EndedAt   *time.Time
}

// Repository defines persistence operations for livestream metadata.
type Repository interface {
	Create(ctx context.Context, l *Livestream) error
	GetByID(ctx context.Context, id string) (*Livestream, error)
	// List returns streams, optionally restricted to currently-live ones.
	List(ctx context.Context, liveOnly bool) ([]Livestream, error)
	// End marks a stream ended and stamps EndedAt.
	End(ctx context.Context, id string, endedAt time.Time) error
}
