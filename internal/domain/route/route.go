package route

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested route or stop does not exist.
var ErrNotFound = errors.New("route not found")

// Stop is a named checkpoint with a scheduled date/time in the seller's
// itinerary. Passed is toggled by admin action, never derived from the
// schedule.
type Stop struct {
	Name   string
	Date   string
	Time   string
	Lat    float64
	Lon    float64
	Passed bool
}

// Route is an ordered sequence of stops. When IsRoundTrip is set, Stops
// already contains the expanded return leg.
type Route struct {
	ID          string
	Name        string
	IsRoundTrip bool
	Stops       []Stop
	CreatedAt   time.Time
}

// ExpandStops flattens stop drafts into the final sequence. A round trip
// appends a reversed copy of every stop except the last, so [A, B, C]
// becomes [A, B, C, B, A] — the turnaround point is not duplicated. Each
// returned stop starts with Passed set to false.
func ExpandStops(drafts []Stop, isRoundTrip bool) []Stop {
	stops := make([]Stop, 0, 2*len(drafts))
	for _, d := range drafts {
		d.Passed = false
		stops = append(stops, d)
	}

	if isRoundTrip && len(drafts) > 1 {
		for i := len(drafts) - 2; i >= 0; i-- {
			d := drafts[i]
			d.Passed = false
			stops = append(stops, d)
		}
	}
	return stops
}

// Repository defines persistence operations for routes.
type Repository interface {
	Create(ctx context.Context, r *Route) error
	GetByID(ctx context.Context, id string) (*Route, error)
	List(ctx context.Context) ([]Route, error)
	// SetStopPassed toggles the passed flag of the stop at the given
	// position in the expanded sequence.
	SetStopPassed(ctx context.Context, routeID string, position int, passed bool) error
	// StopExists reports whether any route carries a stop with the name.
	StopExists(ctx context.Context, name string) (bool, error)
}
