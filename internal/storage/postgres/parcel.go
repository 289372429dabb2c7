package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamkart/roamkart/internal/domain/parcel"
)

const (
	parcelColumns = `id, sender, receiver, from_stop, to_stop, status, created_at`

	insertParcelSQL = `INSERT INTO parcels (id, sender, receiver, from_stop, to_stop, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	getParcelByIDSQL = `SELECT ` + parcelColumns + ` FROM parcels WHERE id = $1`

	listParcelsSQL = `SELECT ` + parcelColumns + ` FROM parcels ORDER BY created_at DESC, id`

	updateParcelStatusSQL = `UPDATE parcels SET status = $2 WHERE id = $1`
)

var _ parcel.Repository = (*ParcelRepository)(nil)

// ParcelRepository implements parcel.Repository backed by PostgreSQL.
type ParcelRepository struct {
	pool *pgxpool.Pool
}

// NewParcelRepository returns a ParcelRepository that uses the given pool.
func NewParcelRepository(pool *pgxpool.Pool) *ParcelRepository {
	return &ParcelRepository{pool: pool}
}

// Create inserts a new parcel.
func (r *ParcelRepository) Create(ctx context.Context, p *parcel.Parcel) error {
	_, err := r.pool.Exec(ctx, insertParcelSQL,
		p.ID, p.Sender, p.Receiver, p.FromStop, p.ToStop, string(p.Status), p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating parcel %q: %w", p.ID, err)
	}
	return nil
}

// GetByID returns a single parcel by its identifier.
func (r *ParcelRepository) GetByID(ctx context.Context, id string) (*parcel.Parcel, error) {
	rows, err := r.pool.Query(ctx, getParcelByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting parcel %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanParcel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, parcel.ErrNotFound
		}
		return nil, fmt.Errorf("getting parcel %q: %w", id, err)
	}
	return &p, nil
}

// List returns all parcels, newest first.
func (r *ParcelRepository) List(ctx context.Context) ([]parcel.Parcel, error) {
	rows, err := r.pool.Query(ctx, listParcelsSQL)
	if err != nil {
		return nil, fmt.Errorf("listing parcels: %w", err)
	}
	return pgx.CollectRows(rows, scanParcel)
}

// UpdateStatus sets a parcel's status.
func (r *ParcelRepository) UpdateStatus(ctx context.Context, id string, status parcel.Status) error {
	tag, err := r.pool.Exec(ctx, updateParcelStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating parcel %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return parcel.ErrNotFound
	}
	return nil
}

func scanParcel(row pgx.CollectableRow) (parcel.Parcel, error) {
	var (
		p      parcel.Parcel
		status string
	)
	err := row.Scan(&p.ID, &p.Sender, &p.Receiver, &p.FromStop, &p.ToStop, &status, &p.CreatedAt)
	p.Status = parcel.Status(status)
	return p, err
}
