package parcel

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/roamkart/roamkart/internal/domain/route"
	"github.com/roamkart/roamkart/internal/events"
)

// RequestError indicates an invalid courier request.
type RequestError struct {
	Field  string
	Reason string
}

func (e *RequestError) Error() string {
	return e.Field + ": " + e.Reason
}

// Service handles customer courier requests and admin status updates.
type Service struct {
	parcels   Repository
	routes    route.Repository
	publisher events.Publisher
}

// NewService creates a parcel Service.
func NewService(parcels Repository, routes route.Repository, publisher events.Publisher) *Service {
	return &Service{
		parcels:   parcels,
		routes:    routes,
		publisher: publisher,
	}
}

// Request describes a customer-initiated courier form submission.
type Request struct {
	Sender   string
	Receiver string
	FromStop string
	ToStop   string
}

// Create validates the request against the current itinerary and stores a
// Pending parcel. Both checkpoints must be named stops on an existing route.
func (s *Service) Create(ctx context.Context, req Request) (*Parcel, error) {
	switch {
	case req.Sender == "":
		return nil, &RequestError{Field: "sender", Reason: "required"}
	case req.Receiver == "":
		return nil, &RequestError{Field: "receiver", Reason: "required"}
	case req.FromStop == "":
		return nil, &RequestError{Field: "fromStop", Reason: "required"}
	case req.ToStop == "":
		return nil, &RequestError{Field: "toStop", Reason: "required"}
	case req.FromStop == req.ToStop:
		return nil, &RequestError{Field: "toStop", Reason: "must differ from fromStop"}
	}

	for _, field := range []struct{ name, stop string }{
		{"fromStop", req.FromStop},
		{"toStop", req.ToStop},
	} {
		known, err := s.routes.StopExists(ctx, field.stop)
		if err != nil {
			return nil, errors.Wrap(err, "check stop")
		}
		if !known {
			return nil, &RequestError{Field: field.name, Reason: "unknown route stop"}
		}
	}

	p := &Parcel{
		ID:        uuid.New().String(),
		Sender:    req.Sender,
		Receiver:  req.Receiver,
		FromStop:  req.FromStop,
		ToStop:    req.ToStop,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
	if err := s.parcels.Create(ctx, p); err != nil {
		return nil, errors.Wrap(err, "create parcel")
	}
	return p, nil
}

// SetStatus applies an admin-picked status to a parcel.
func (s *Service) SetStatus(ctx context.Context, id string, status Status) (*Parcel, error) {
	p, err := s.parcels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.parcels.UpdateStatus(ctx, id, status); err != nil {
		return nil, errors.Wrapf(err, "update parcel %s", id)
	}
	p.Status = status

	s.publisher.Publish(events.Event{
		Kind:       events.KindParcelStatusChanged,
		ParcelID:   p.ID,
		Status:     string(status),
		Message:    "Parcel for " + p.Receiver + " is now " + string(status),
		OccurredAt: time.Now(),
	})
	return p, nil
}
