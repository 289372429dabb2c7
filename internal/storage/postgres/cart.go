package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamkart/roamkart/internal/domain/cart"
)

const (
	listCartItemsSQL = `SELECT user_id, product_id, quantity, added_at
		FROM cart_items WHERE user_id = $1 ORDER BY added_at, product_id`

	getCartItemSQL = `SELECT user_id, product_id, quantity, added_at
		FROM cart_items WHERE user_id = $1 AND product_id = $2`

	upsertCartItemSQL = `INSERT INTO cart_items (user_id, product_id, quantity, added_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, added_at = EXCLUDED.added_at`

	deleteCartItemSQL = `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`

	clearCartSQL = `DELETE FROM cart_items WHERE user_id = $1`
)

var _ cart.Repository = (*CartRepository)(nil)

// CartRepository implements cart.Repository backed by PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a CartRepository that uses the given pool.
func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

// List returns the user's cart lines in insertion order.
func (r *CartRepository) List(ctx context.Context, userID string) ([]cart.Item, error) {
	rows, err := r.pool.Query(ctx, listCartItemsSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing cart items: %w", err)
	}
	return pgx.CollectRows(rows, scanCartItem)
}

// Get returns one cart line, or cart.ErrItemNotFound.
func (r *CartRepository) Get(ctx context.Context, userID, productID string) (*cart.Item, error) {
	rows, err := r.pool.Query(ctx, getCartItemSQL, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("getting cart item: %w", err)
	}

	item, err := pgx.CollectExactlyOneRow(rows, scanCartItem)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cart.ErrItemNotFound
		}
		return nil, fmt.Errorf("getting cart item: %w", err)
	}
	return &item, nil
}

// Upsert inserts or replaces a cart line.
func (r *CartRepository) Upsert(ctx context.Context, item *cart.Item) error {
	_, err := r.pool.Exec(ctx, upsertCartItemSQL,
		item.UserID, item.ProductID, item.Quantity, item.AddedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting cart item: %w", err)
	}
	return nil
}

// Delete removes a cart line. Deleting a missing line is a no-op.
func (r *CartRepository) Delete(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx, deleteCartItemSQL, userID, productID)
	if err != nil {
		return fmt.Errorf("deleting cart item: %w", err)
	}
	return nil
}

// Clear removes every line in the user's cart.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, clearCartSQL, userID)
	if err != nil {
		return fmt.Errorf("clearing cart: %w", err)
	}
	return nil
}

func scanCartItem(row pgx.CollectableRow) (cart.Item, error) {
	var item cart.Item
	err := row.Scan(&item.UserID, &item.ProductID, &item.Quantity, &item.AddedAt)
	return item, err
}
