package parcel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roamkart/roamkart/internal/domain/route"
	"github.com/roamkart/roamkart/internal/events"
)

// --- Mock implementations ---

type mockParcelRepo struct {
	byID map[string]*Parcel
}

func newMockParcelRepo(parcels ...*Parcel) *mockParcelRepo {
	byID := make(map[string]*Parcel, len(parcels))
	for _, p := range parcels {
		byID[p.ID] = p
	}
	return &mockParcelRepo{byID: byID}
}

func (m *mockParcelRepo) Create(_ context.Context, p *Parcel) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *mockParcelRepo) GetByID(_ context.Context, id string) (*Parcel, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockParcelRepo) List(_ context.Context) ([]Parcel, error) { return nil, nil }

func (m *mockParcelRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	p, ok := m.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Status = status
	return nil
}

type mockRouteRepo struct {
	stops map[string]bool
}

func (m *mockRouteRepo) Create(_ context.Context, _ *route.Route) error { return nil }
func (m *mockRouteRepo) GetByID(_ context.Context, _ string) (*route.Route, error) {
	return nil, route.ErrNotFound
}
func (m *mockRouteRepo) List(_ context.Context) ([]route.Route, error) { return nil, nil }
func (m *mockRouteRepo) SetStopPassed(_ context.Context, _ string, _ int, _ bool) error {
	return nil
}

func (m *mockRouteRepo) StopExists(_ context.Context, name string) (bool, error) {
	return m.stops[name], nil
}

type capturePublisher struct {
	published []events.Event
}

func (p *capturePublisher) Publish(e events.Event) {
	p.published = append(p.published, e)
}

// --- Helpers ---

func newTestService(pub events.Publisher, stops ...string) (*Service, *mockParcelRepo) {
	known := make(map[string]bool, len(stops))
	for _, s := range stops {
		known[s] = true
	}
	repo := newMockParcelRepo()
	return NewService(repo, &mockRouteRepo{stops: known}, pub), repo
}

func validRequest() Request {
	return Request{
		Sender:   "Ana",
		Receiver: "Ben",
		FromStop: "Harbor Market",
		ToStop:   "Hillside Plaza",
	}
}

// --- Tests ---

func TestCreate(t *testing.T) {
	svc, repo := newTestService(events.Noop{}, "Harbor Market", "Hillside Plaza")

	p, err := svc.Create(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, StatusPending, p.Status)
	assert.NotEmpty(t, p.ID)
	assert.Len(t, repo.byID, 1)
}

func TestCreate_MissingFields(t *testing.T) {
	svc, _ := newTestService(events.Noop{}, "Harbor Market", "Hillside Plaza")

	tests := []struct {
		field  string
		mutate func(*Request)
	}{
		{"sender", func(r *Request) { r.Sender = "" }},
		{"receiver", func(r *Request) { r.Receiver = "" }},
		{"fromStop", func(r *Request) { r.FromStop = "" }},
		{"toStop", func(r *Request) { r.ToStop = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), req)

			var reqErr *RequestError
			require.ErrorAs(t, err, &reqErr)
			assert.Equal(t, tt.field, reqErr.Field)
		})
	}
}

func TestCreate_SameStops(t *testing.T) {
	svc, _ := newTestService(events.Noop{}, "Harbor Market")

	req := validRequest()
	req.ToStop = req.FromStop

	_, err := svc.Create(context.Background(), req)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "toStop", reqErr.Field)
}

func TestCreate_UnknownStop(t *testing.T) {
	svc, _ := newTestService(events.Noop{}, "Harbor Market")

	_, err := svc.Create(context.Background(), validRequest())

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "toStop", reqErr.Field)
	assert.Equal(t, "unknown route stop", reqErr.Reason)
}

func TestSetStatus(t *testing.T) {
	pub := &capturePublisher{}
	svc, repo := newTestService(pub, "Harbor Market", "Hillside Plaza")

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	p, err := svc.SetStatus(context.Background(), created.ID, StatusOnTheWay)

	require.NoError(t, err)
	assert.Equal(t, StatusOnTheWay, p.Status)
	assert.Equal(t, StatusOnTheWay, repo.byID[created.ID].Status)
	require.Len(t, pub.published, 1)
	assert.Equal(t, events.KindParcelStatusChanged, pub.published[0].Kind)
	assert.Equal(t, created.ID, pub.published[0].ParcelID)
}

func TestSetStatus_NotFound(t *testing.T) {
	svc, _ := newTestService(events.Noop{})

	_, err := svc.SetStatus(context.Background(), "missing", StatusCompleted)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"Pending", "On the Way", "Ready for Pickup", "Completed"} {
		_, err := ParseStatus(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseStatus("Lost")
	assert.Error(t, err)
}
