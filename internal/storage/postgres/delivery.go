package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamkart/roamkart/internal/domain/delivery"
)

const (
	deliveryColumns = `id, order_id, customer_name, address, lat, lon, status, driver, created_at`

	// ON CONFLICT DO NOTHING makes the "On the Way" side effect idempotent:
	// at most one delivery ever exists per order.
	insertDeliverySQL = `INSERT INTO deliveries
		(id, order_id, customer_name, address, lat, lon, status, driver, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_id) DO NOTHING`

	getDeliveryByIDSQL = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1`

	getDeliveryByOrderSQL = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE order_id = $1`

	listDeliveriesSQL = `SELECT ` + deliveryColumns + ` FROM deliveries ORDER BY created_at DESC, id`

	updateDeliverySQL = `UPDATE deliveries SET
		customer_name = $2, address = $3, lat = $4, lon = $5, status = $6, driver = $7
		WHERE id = $1`
)

var _ delivery.Repository = (*DeliveryRepository)(nil)

// DeliveryRepository implements delivery.Repository backed by PostgreSQL.
type DeliveryRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryRepository returns a DeliveryRepository that uses the given pool.
func NewDeliveryRepository(pool *pgxpool.Pool) *DeliveryRepository {
	return &DeliveryRepository{pool: pool}
}

// CreateIfAbsent inserts the delivery unless its order already has one.
func (r *DeliveryRepository) CreateIfAbsent(ctx context.Context, d *delivery.Delivery) (bool, error) {
	tag, err := r.pool.Exec(ctx, insertDeliverySQL,
		d.ID, d.OrderID, d.CustomerName, d.Address, d.Lat, d.Lon, string(d.Status), d.Driver, d.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("creating delivery for order %q: %w", d.OrderID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByID returns a single delivery by its identifier.
func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*delivery.Delivery, error) {
	return r.getOne(ctx, getDeliveryByIDSQL, id)
}

// GetByOrderID returns the delivery spawned by the given order.
func (r *DeliveryRepository) GetByOrderID(ctx context.Context, orderID string) (*delivery.Delivery, error) {
	return r.getOne(ctx, getDeliveryByOrderSQL, orderID)
}

// List returns all deliveries, newest first.
func (r *DeliveryRepository) List(ctx context.Context) ([]delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx, listDeliveriesSQL)
	if err != nil {
		return nil, fmt.Errorf("listing deliveries: %w", err)
	}
	return pgx.CollectRows(rows, scanDelivery)
}

// Update overwrites a delivery's mutable fields.
func (r *DeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	tag, err := r.pool.Exec(ctx, updateDeliverySQL,
		d.ID, d.CustomerName, d.Address, d.Lat, d.Lon, string(d.Status), d.Driver,
	)
	if err != nil {
		return fmt.Errorf("updating delivery %q: %w", d.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return delivery.ErrNotFound
	}
	return nil
}

func (r *DeliveryRepository) getOne(ctx context.Context, sql, arg string) (*delivery.Delivery, error) {
	rows, err := r.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("getting delivery: %w", err)
	}

	d, err := pgx.CollectExactlyOneRow(rows, scanDelivery)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, delivery.ErrNotFound
		}
		return nil, fmt.Errorf("getting delivery: %w", err)
	}
	return &d, nil
}

func scanDelivery(row pgx.CollectableRow) (delivery.Delivery, error) {
	var (
		d      delivery.Delivery
		status string
	)
	err := row.Scan(
		&d.ID, &d.OrderID, &d.CustomerName, &d.Address,
		&d.Lat, &d.Lon, &status, &d.Driver, &d.CreatedAt,
	)
	d.Status = delivery.Status(status)
	return d, err
}
