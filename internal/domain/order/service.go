package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/delivery"
	"github.com/roamkart/roamkart/internal/domain/pricing"
	"github.com/roamkart/roamkart/internal/domain/product"
	"github.com/roamkart/roamkart/internal/events"
)

// Service owns the order lifecycle: checkout, admin status updates with the
// delivery side effect, and delivery status feedback.
type Service struct {
	orders     Repository
	deliveries delivery.Repository
	store      CheckoutStore
	publisher  events.Publisher
}

// NewService creates an order Service with the required dependencies.
func NewService(
	orders Repository,
	deliveries delivery.Repository,
	store CheckoutStore,
	publisher events.Publisher,
) *Service {
	return &Service{
		orders:     orders,
		deliveries: deliveries,
		store:      store,
		publisher:  publisher,
	}
}

// Checkout converts the user's cart into Pending orders. It fails with
// ErrNotAuthenticated for an empty identity and ErrEmptyCart when there is
// nothing to buy. The store runs the whole conversion in one transaction.
func (s *Service) Checkout(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	orders, err := s.store.Checkout(ctx, userID, func(p *product.Product, qty int) decimal.Decimal {
		return pricing.Resolve(p, qty).EffectivePrice
	})
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		s.publisher.Publish(events.Event{
			Kind:       events.KindOrderPlaced,
			OrderID:    o.ID,
			UserID:     userID,
			Status:     string(o.Status),
			Message:    "Order placed: " + o.ProductName,
			OccurredAt: time.Now(),
		})
	}
	return orders, nil
}

// SetStatus applies an admin-picked status to an order. Transitioning to
// "On the Way" lazily creates the order's delivery record; the insert is
// idempotent, so repeating the transition never yields a second delivery.
func (s *Service) SetStatus(ctx context.Context, orderID string, status Status) (*Order, error) {
	o, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, errors.Wrapf(err, "update order %s", orderID)
	}
	o.Status = status

	if status == StatusOnTheWay {
		if _, err := s.deliveries.CreateIfAbsent(ctx, &delivery.Delivery{
			ID:           uuid.New().String(),
			OrderID:      o.ID,
			CustomerName: o.Customer(),
			Status:       delivery.StatusPending,
			CreatedAt:    time.Now(),
		}); err != nil {
			return nil, errors.Wrapf(err, "create delivery for order %s", orderID)
		}
	}

	s.publisher.Publish(events.Event{
		Kind:       events.KindOrderStatusChanged,
		OrderID:    o.ID,
		UserID:     o.Customer(),
		Status:     string(status),
		Message:    "Order " + o.ID + " is now " + string(status),
		OccurredAt: time.Now(),
	})
	return o, nil
}

// SetDeliveryStatus applies an admin-picked status to a delivery and feeds
// the change back into the owning order: Completed marks the order
// Delivered, Pending drops it back to Confirmed, and Out for Delivery keeps
// it On the Way.
func (s *Service) SetDeliveryStatus(ctx context.Context, deliveryID string, status delivery.Status) (*delivery.Delivery, error) {
	d, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	d.Status = status
	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, errors.Wrapf(err, "update delivery %s", deliveryID)
	}

	if orderStatus, ok := orderStatusFor(status); ok {
		if err := s.orders.UpdateStatus(ctx, d.OrderID, orderStatus); err != nil {
			return nil, errors.Wrapf(err, "update order %s", d.OrderID)
		}
		s.publisher.Publish(events.Event{
			Kind:       events.KindOrderStatusChanged,
			OrderID:    d.OrderID,
			Status:     string(orderStatus),
			Message:    "Order " + d.OrderID + " is now " + string(orderStatus),
			OccurredAt: time.Now(),
		})
	}
	return d, nil
}

// AssignDriver updates the driver and destination details on a delivery.
func (s *Service) AssignDriver(ctx context.Context, deliveryID, driver, address string, lat, lon float64) (*delivery.Delivery, error) {
	d, err := s.deliveries.GetByID(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	d.Driver = driver
	if address != "" {
		d.Address = address
		d.Lat = lat
		d.Lon = lon
	}
	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, errors.Wrapf(err, "update delivery %s", deliveryID)
	}
	return d, nil
}

// orderStatusFor maps a delivery status to the order status it implies.
func orderStatusFor(status delivery.Status) (Status, bool) {
	switch status {
	case delivery.StatusCompleted:
		return StatusDelivered, true
	case delivery.StatusPending:
		return StatusConfirmed, true
	case delivery.StatusOutForDelivery:
		return StatusOnTheWay, true
	}
	return "", false
}
