package order

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamkart/roamkart/internal/domain/delivery"
	"github.com/roamkart/roamkart/internal/events"
)

// --- Mock implementations ---

type mockOrderRepo struct {
	byID     map[string]*Order
	statuses map[string]Status
}

func newMockOrderRepo(orders ...*Order) *mockOrderRepo {
	byID := make(map[string]*Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	return &mockOrderRepo{byID: byID, statuses: make(map[string]Status)}
}

func (m *mockOrderRepo) GetByID(_ context.Context, id string) (*Order, error) {
	o, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUser(_ context.Context, _ string) ([]Order, error) { return nil, nil }
func (m *mockOrderRepo) List(_ context.Context) ([]Order, error)                 { return nil, nil }

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	m.statuses[id] = status
	m.byID[id].Status = status
	return nil
}

type mockDeliveryRepo struct {
	byID    map[string]*delivery.Delivery
	byOrder map[string]*delivery.Delivery
	inserts int
}

func newMockDeliveryRepo(deliveries ...*delivery.Delivery) *mockDeliveryRepo {
	m := &mockDeliveryRepo{
		byID:    make(map[string]*delivery.Delivery),
		byOrder: make(map[string]*delivery.Delivery),
	}
	for _, d := range deliveries {
		m.byID[d.ID] = d
		m.byOrder[d.OrderID] = d
	}
	return m
}

func (m *mockDeliveryRepo) CreateIfAbsent(_ context.Context, d *delivery.Delivery) (bool, error) {
	if _, ok := m.byOrder[d.OrderID]; ok {
		return false, nil
	}
	cp := *d
	m.byID[d.ID] = &cp
	m.byOrder[d.OrderID] = &cp
	m.inserts++
	return true, nil
}

func (m *mockDeliveryRepo) GetByID(_ context.Context, id string) (*delivery.Delivery, error) {
	d, ok := m.byID[id]
	if !ok {
		return nil, delivery.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDeliveryRepo) GetByOrderID(_ context.Context, orderID string) (*delivery.Delivery, error) {
	d, ok := m.byOrder[orderID]
	if !ok {
		return nil, delivery.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockDeliveryRepo) List(_ context.Context) ([]delivery.Delivery, error) { return nil, nil }

func (m *mockDeliveryRepo) Update(_ context.Context, d *delivery.Delivery) error {
	if _, ok := m.byID[d.ID]; !ok {
		return delivery.ErrNotFound
	}
	cp := *d
	m.byID[d.ID] = &cp
	m.byOrder[d.OrderID] = &cp
	return nil
}

type mockCheckoutStore struct {
	orders []Order
	err    error
	userID string
}

func (m *mockCheckoutStore) Checkout(_ context.Context, userID string, _ PriceFunc) ([]Order, error) {
	m.userID = userID
	return m.orders, m.err
}

type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(e events.Event) {
	p.published = append(p.published, e)
}

// --- Helpers ---

func newTestOrder(id, userID string) *Order {
	uid := userID
	return &Order{
		ID:          id,
		UserID:      &uid,
		ProductID:   "p1",
		ProductName: "Widget",
		Quantity:    2,
		Amount:      decimal.RequireFromString("200.00"),
		Status:      StatusPending,
	}
}

// --- Tests ---

func TestCheckout_RequiresIdentity(t *testing.T) {
	svc := NewService(newMockOrderRepo(), newMockDeliveryRepo(), &mockCheckoutStore{}, events.Noop{})

	_, err := svc.Checkout(context.Background(), "")
	require.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCheckout_EmptyCart(t *testing.T) {
	store := &mockCheckoutStore{err: ErrEmptyCart}
	svc := NewService(newMockOrderRepo(), newMockDeliveryRepo(), store, events.Noop{})

	_, err := svc.Checkout(context.Background(), "u1")
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckout_PublishesPerOrder(t *testing.T) {
	store := &mockCheckoutStore{orders: []Order{*newTestOrder("o1", "u1"), *newTestOrder("o2", "u1")}}
	pub := &capturePublisher{}
	svc := NewService(newMockOrderRepo(), newMockDeliveryRepo(), store, pub)

	orders, err := svc.Checkout(context.Background(), "u1")

	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, "u1", store.userID)
	require.Len(t, pub.published, 2)
	assert.Equal(t, events.KindOrderPlaced, pub.published[0].Kind)
	assert.Equal(t, "o1", pub.published[0].OrderID)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	store := &mockCheckoutStore{err: &InsufficientStockError{ProductID: "p1", Requested: 5, Available: 2}}
	pub := &capturePublisher{}
	svc := NewService(newMockOrderRepo(), newMockDeliveryRepo(), store, pub)

	_, err := svc.Checkout(context.Background(), "u1")

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "p1", stockErr.ProductID)
	assert.Empty(t, pub.published)
}

func TestSetStatus_NotFound(t *testing.T) {
	svc := NewService(newMockOrderRepo(), newMockDeliveryRepo(), &mockCheckoutStore{}, events.Noop{})

	_, err := svc.SetStatus(context.Background(), "missing", StatusConfirmed)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatus_Updates(t *testing.T) {
	orders := newMockOrderRepo(newTestOrder("o1", "u1"))
	pub := &capturePublisher{}
	svc := NewService(orders, newMockDeliveryRepo(), &mockCheckoutStore{}, pub)

	o, err := svc.SetStatus(context.Background(), "o1", StatusConfirmed)

	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, o.Status)
	assert.Equal(t, StatusConfirmed, orders.statuses["o1"])
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.KindOrderStatusChanged, pub.published[0].Kind)
}

func TestSetStatus_OnTheWaySpawnsDelivery(t *testing.T) {
	orders := newMockOrderRepo(newTestOrder("o1", "u1"))
	deliveries := newMockDeliveryRepo()
	svc := NewService(orders, deliveries, &mockCheckoutStore{}, events.Noop{})

	_, err := svc.SetStatus(context.Background(), "o1", StatusOnTheWay)

	require.NoError(t, err)
	require.Equal(t, 1, deliveries.inserts)
	d := deliveries.byOrder["o1"]
	require.NotNil(t, d)
	assert.Equal(t, delivery.StatusPending, d.Status)
	assert.Equal(t, "u1", d.CustomerName)
}

func TestSetStatus_OnTheWayTwiceIsIdempotent(t *testing.T) {
	orders := newMockOrderRepo(newTestOrder("o1", "u1"))
	deliveries := newMockDeliveryRepo()
	svc := NewService(orders, deliveries, &mockCheckoutStore{}, events.Noop{})

	_, err := svc.SetStatus(context.Background(), "o1", StatusOnTheWay)
	require.NoError(t, err)
	_, err = svc.SetStatus(context.Background(), "o1", StatusOnTheWay)
	require.NoError(t, err)

	assert.Equal(t, 1, deliveries.inserts)
}

func TestSetStatus_OtherStatusesNoDelivery(t *testing.T) {
	orders := newMockOrderRepo(newTestOrder("o1", "u1"))
	deliveries := newMockDeliveryRepo()
	svc := NewService(orders, deliveries, &mockCheckoutStore{}, events.Noop{})

	for _, status := range []Status{StatusPending, StatusConfirmed, StatusDelivered} {
		_, err := svc.SetStatus(context.Background(), "o1", status)
		require.NoError(t, err)
	}

	assert.Zero(t, deliveries.inserts)
}

func TestSetDeliveryStatus_FeedsOrder(t *testing.T) {
	tests := []struct {
		name           string
		deliveryStatus delivery.Status
		orderStatus    Status
	}{
		{"completed marks delivered", delivery.StatusCompleted, StatusDelivered},
		{"pending drops to confirmed", delivery.StatusPending, StatusConfirmed},
		{"out for delivery keeps on the way", delivery.StatusOutForDelivery, StatusOnTheWay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := newMockOrderRepo(newTestOrder("o1", "u1"))
			deliveries := newMockDeliveryRepo(&delivery.Delivery{ID: "d1", OrderID: "o1", Status: delivery.StatusPending})
			pub := &capturePublisher{}
			svc := NewService(orders, deliveries, &mockCheckoutStore{}, pub)

			d, err := svc.SetDeliveryStatus(context.Background(), "d1", tt.deliveryStatus)

			require.NoError(t, err)
			assert.Equal(t, tt.deliveryStatus, d.Status)
			assert.Equal(t, tt.orderStatus, orders.statuses["o1"])
			require.Len(t, pub.published, 1)
			assert.Equal(t, string(tt.orderStatus), pub.published[0].Status)
		})
	}
}

func TestSetDeliveryStatus_NotFound(t *testing.T) {
	svc := NewService(newMockOrderRepo(), newMockDeliveryRepo(), &mockCheckoutStore{}, events.Noop{})

	_, err := svc.SetDeliveryStatus(context.Background(), "missing", delivery.StatusCompleted)
	require.ErrorIs(t, err, delivery.ErrNotFound)
}

func TestAssignDriver(t *testing.T) {
	deliveries := newMockDeliveryRepo(&delivery.Delivery{ID: "d1", OrderID: "o1", Status: delivery.StatusPending})
	svc := NewService(newMockOrderRepo(), deliveries, &mockCheckoutStore{}, events.Noop{})

	d, err := svc.AssignDriver(context.Background(), "d1", "Sam", "12 Pier Road", 14.6, 121.0)

	require.NoError(t, err)
	assert.Equal(t, "Sam", d.Driver)
	assert.Equal(t, "12 Pier Road", d.Address)
	assert.Equal(t, 14.6, d.Lat)
}

func TestAssignDriver_KeepsAddressWhenEmpty(t *testing.T) {
	deliveries := newMockDeliveryRepo(&delivery.Delivery{
		ID: "d1", OrderID: "o1", Address: "old address", Lat: 1, Lon: 2,
	})
	svc := NewService(newMockOrderRepo(), deliveries, &mockCheckoutStore{}, events.Noop{})

	d, err := svc.AssignDriver(context.Background(), "d1", "Sam", "", 0, 0)

	require.NoError(t, err)
	assert.Equal(t, "old address", d.Address)
	assert.Equal(t, 1.0, d.Lat)
}

func TestCustomer(t *testing.T) {
	o := newTestOrder("o1", "u1")
	assert.Equal(t, "u1", o.Customer())

	o.UserID = nil
	assert.Equal(t, GuestUser, o.Customer())

	empty := ""
	o.UserID = &empty
	assert.Equal(t, GuestUser, o.Customer())
}
