package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/order"
)

const (
	orderColumns = `id, user_id, product_id, product_name, quantity, amount, status, created_at`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC, id`

	listOrdersSQL = `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC, id`

	updateOrderStatusSQL = `UPDATE orders SET status = $2 WHERE id = $1`

	insertOrderSQL = `INSERT INTO orders (id, user_id, product_id, product_name, quantity, amount, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectCartForCheckoutSQL = `SELECT product_id, quantity FROM cart_items
		WHERE user_id = $1 ORDER BY product_id`

	lockProductSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`

	decrementStockSQL = `UPDATE products SET quantity = quantity - $2, updated_at = now() WHERE id = $1`
)

var (
	_ order.Repository    = (*OrderRepository)(nil)
	_ order.CheckoutStore = (*OrderRepository)(nil)
)

// OrderRepository implements order.Repository and order.CheckoutStore backed
// by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID returns a single order by its identifier.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// ListByUser returns the user's orders, newest first.
func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// List returns all orders, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, listOrdersSQL)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}
	return pgx.CollectRows(rows, scanOrder)
}

// UpdateStatus sets an order's status.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, string(status))
	if err != nil {
		return fmt.Errorf("updating order %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// Checkout implements order.CheckoutStore. The whole conversion — stock
// verification, order inserts, stock decrements, cart clearing — commits or
// rolls back as one transaction. Product rows are locked in product-ID order
// to keep concurrent checkouts deadlock-free.
func (r *OrderRepository) Checkout(ctx context.Context, userID string, price order.PriceFunc) ([]order.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, selectCartForCheckoutSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}

	type line struct {
		productID string
		quantity  int
	}
	lines, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (line, error) {
		var l line
		err := row.Scan(&l.productID, &l.quantity)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("reading cart: %w", err)
	}
	if len(lines) == 0 {
		return nil, order.ErrEmptyCart
	}

	now := time.Now()
	orders := make([]order.Order, 0, len(lines))
	for _, l := range lines {
		prows, err := tx.Query(ctx, lockProductSQL, l.productID)
		if err != nil {
			return nil, fmt.Errorf("locking product %q: %w", l.productID, err)
		}
		p, err := pgx.CollectExactlyOneRow(prows, scanProduct)
		if err != nil {
			return nil, fmt.Errorf("locking product %q: %w", l.productID, err)
		}

		if p.Quantity < l.quantity {
			return nil, &order.InsufficientStockError{
				ProductID: p.ID,
				Requested: l.quantity,
				Available: p.Quantity,
			}
		}

		unit := price(&p, l.quantity)
		o := order.Order{
			ID:          uuid.New().String(),
			UserID:      &userID,
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.quantity,
			Amount:      unit.Mul(decimal.NewFromInt(int64(l.quantity))).Round(2),
			Status:      order.StatusPending,
			CreatedAt:   now,
		}

		if _, err := tx.Exec(ctx, insertOrderSQL,
			o.ID, o.UserID, o.ProductID, o.ProductName, o.Quantity, o.Amount, string(o.Status), o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("creating order for %q: %w", p.ID, err)
		}
		if _, err := tx.Exec(ctx, decrementStockSQL, p.ID, l.quantity); err != nil {
			return nil, fmt.Errorf("decrementing stock for %q: %w", p.ID, err)
		}

		orders = append(orders, o)
	}

	if _, err := tx.Exec(ctx, clearCartSQL, userID); err != nil {
		return nil, fmt.Errorf("clearing cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return orders, nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o      order.Order
		status string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.ProductName,
		&o.Quantity, &o.Amount, &status, &o.CreatedAt,
	)
	o.Status = order.Status(status)
	return o, err
}
