package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamkart/roamkart/internal/domain/route"
)

const (
	insertRouteSQL = `INSERT INTO routes (id, name, is_round_trip, created_at)
		VALUES ($1, $2, $3, $4)`

	insertRouteStopSQL = `INSERT INTO route_stops (route_id, position, name, date, time, lat, lon, passed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getRouteSQL = `SELECT id, name, is_round_trip, created_at FROM routes WHERE id = $1`

	listRoutesSQL = `SELECT id, name, is_round_trip, created_at FROM routes ORDER BY created_at, id`

	listRouteStopsSQL = `SELECT name, date, time, lat, lon, passed
		FROM route_stops WHERE route_id = $1 ORDER BY position`

	setStopPassedSQL = `UPDATE route_stops SET passed = $3 WHERE route_id = $1 AND position = $2`

	stopExistsSQL = `SELECT EXISTS (SELECT 1 FROM route_stops WHERE name = $1)`
)

var _ route.Repository = (*RouteRepository)(nil)

// RouteRepository implements route.Repository backed by PostgreSQL. Stops
// are stored in their expanded order; the route row carries only the
// round-trip flag for display.
type RouteRepository struct {
	pool *pgxpool.Pool
}

// NewRouteRepository returns a RouteRepository that uses the given pool.
func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

// Create inserts the route and its expanded stop sequence in one
// transaction.
func (r *RouteRepository) Create(ctx context.Context, rt *route.Route) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create route: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertRouteSQL, rt.ID, rt.Name, rt.IsRoundTrip, rt.CreatedAt); err != nil {
		return fmt.Errorf("creating route %q: %w", rt.ID, err)
	}
	for i, s := range rt.Stops {
		if _, err := tx.Exec(ctx, insertRouteStopSQL,
			rt.ID, i, s.Name, s.Date, s.Time, s.Lat, s.Lon, s.Passed,
		); err != nil {
			return fmt.Errorf("creating stop %d of route %q: %w", i, rt.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create route: %w", err)
	}
	return nil
}

// GetByID returns a route with its stops in expanded order.
func (r *RouteRepository) GetByID(ctx context.Context, id string) (*route.Route, error) {
	rows, err := r.pool.Query(ctx, getRouteSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting route %q: %w", id, err)
	}

	rt, err := pgx.CollectExactlyOneRow(rows, scanRoute)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, route.ErrNotFound
		}
		return nil, fmt.Errorf("getting route %q: %w", id, err)
	}

	if rt.Stops, err = r.listStops(ctx, id); err != nil {
		return nil, err
	}
	return &rt, nil
}

// List returns all routes with their stops.
func (r *RouteRepository) List(ctx context.Context) ([]route.Route, error) {
	rows, err := r.pool.Query(ctx, listRoutesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}

	routes, err := pgx.CollectRows(rows, scanRoute)
	if err != nil {
		return nil, fmt.Errorf("listing routes: %w", err)
	}

	for i := range routes {
		if routes[i].Stops, err = r.listStops(ctx, routes[i].ID); err != nil {
			return nil, err
		}
	}
	return routes, nil
}

// SetStopPassed toggles the passed flag of one stop.
func (r *RouteRepository) SetStopPassed(ctx context.Context, routeID string, position int, passed bool) error {
	tag, err := r.pool.Exec(ctx, setStopPassedSQL, routeID, position, passed)
	if err != nil {
		return fmt.Errorf("updating stop %d of route %q: %w", position, routeID, err)
	}
	if tag.RowsAffected() == 0 {
		return route.ErrNotFound
	}
	return nil
}

// StopExists reports whether any route carries a stop with the name.
func (r *RouteRepository) StopExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.pool.QueryRow(ctx, stopExistsSQL, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking stop %q: %w", name, err)
	}
	return exists, nil
}

func (r *RouteRepository) listStops(ctx context.Context, routeID string) ([]route.Stop, error) {
	rows, err := r.pool.Query(ctx, listRouteStopsSQL, routeID)
	if err != nil {
		return nil, fmt.Errorf("listing stops of route %q: %w", routeID, err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (route.Stop, error) {
		var s route.Stop
		err := row.Scan(&s.Name, &s.Date, &s.Time, &s.Lat, &s.Lon, &s.Passed)
		return s, err
	})
}

func scanRoute(row pgx.CollectableRow) (route.Route, error) {
	var rt route.Route
	err := row.Scan(&rt.ID, &rt.Name, &rt.IsRoundTrip, &rt.CreatedAt)
	return rt, err
}
