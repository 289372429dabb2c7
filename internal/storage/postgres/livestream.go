package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamkart/roamkart/internal/domain/livestream"
)

const (
	livestreamColumns = `id, title, seller, status, started_at, ended_at`

	insertLivestreamSQL = `INSERT INTO livestreams (id, title, seller, status, started_at)
		VALUES ($1, $2, $3, $4, $5)`

	getLivestreamSQL = `SELECT ` + livestreamColumns + ` FROM livestreams WHERE id = $1`

	listLivestreamsSQL = `SELECT ` + livestreamColumns + ` FROM livestreams
		WHERE NOT $1 OR status = 'live' ORDER BY started_at DESC, id`

	endLivestreamSQL = `UPDATE livestreams SET status = 'ended', ended_at = $2
		WHERE id = $1 AND status = 'live'`
)

var _ livestream.Repository = (*LivestreamRepository)(nil)

// LivestreamRepository implements livestream.Repository backed by PostgreSQL.
type LivestreamRepository struct {
	pool *pgxpool.Pool
}

// NewLivestreamRepository returns a LivestreamRepository that uses the given pool.
func NewLivestreamRepository(pool *pgxpool.Pool) *LivestreamRepository {
	return &LivestreamRepository{pool: pool}
}

// Create inserts new livestream metadata.
func (r *LivestreamRepository) Create(ctx context.Context, l *livestream.Livestream) error {
	_, err := r.pool.Exec(ctx, insertLivestreamSQL,
		l.ID, l.Title, l.Seller, string(l.Status), l.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("creating livestream %q: %w", l.ID, err)
	}
	return nil
}

// GetByID returns a single livestream by its identifier.
func (r *LivestreamRepository) GetByID(ctx context.Context, id string) (*livestream.Livestream, error) {
	rows, err := r.pool.Query(ctx, getLivestreamSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting livestream %q: %w", id, err)
	}

	l, err := pgx.CollectExactlyOneRow(rows, scanLivestream)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, livestream.ErrNotFound
		}
		return nil, fmt.Errorf("getting livestream %q: %w", id, err)
	}
	return &l, nil
}

// List returns streams, optionally only currently-live ones, newest first.
func (r *LivestreamRepository) List(ctx context.Context, liveOnly bool) ([]livestream.Livestream, error) {
	rows, err := r.pool.Query(ctx, listLivestreamsSQL, liveOnly)
	if err != nil {
		return nil, fmt.Errorf("listing livestreams: %w", err)
	}
	return pgx.CollectRows(rows, scanLivestream)
}

// End marks a live stream ended. Ending an already-ended stream is a no-op
// error so callers can distinguish it.
func (r *LivestreamRepository) End(ctx context.Context, id string, endedAt time.Time) error {
	tag, err := r.pool.Exec(ctx, endLivestreamSQL, id, endedAt)
	if err != nil {
		return fmt.Errorf("ending livestream %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return livestream.ErrNotFound
	}
	return nil
}

func scanLivestream(row pgx.CollectableRow) (livestream.Livestream, error) {
	var (
		l      livestream.Livestream
		status string
	)
	err := row.Scan(&l.ID, &l.Title, &l.Seller, &status, &l.StartedAt, &l.EndedAt)
	l.Status = livestream.Status(status)
	return l, err
}
