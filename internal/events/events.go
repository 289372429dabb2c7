// Package events is the fire-and-forget notification sink. Domain services
// emit events after successful mutations; delivery is best-effort and
// failures never propagate back into the request path.
package events

import "time"

// Event kinds published to the notification topic.
const (
	KindOrderPlaced         = "order.placed"
	KindOrderStatusChanged  = "order.status_changed"
	KindParcelStatusChanged = "parcel.status_changed"
)

// Event is the envelope published for every notification.
type Event struct {
	Kind       string    `json:"kind"`
	OrderID    string    `json:"order_id,omitempty"`
	ParcelID   string    `json:"parcel_id,omitempty"`
	UserID     string    `json:"user_id,omitempty"`
	Status     string    `json:"status,omitempty"`
	Message    string    `json:"message,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher delivers events to the notification sink.
type Publisher interface {
	Publish(e Event)
}

// Noop discards all events. Used when no broker is configured.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(Event) {}
