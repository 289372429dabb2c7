package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/roamkart/roamkart/internal/domain/product"
)

const (
	productColumns = `id, name, category, price, cost, quantity, unit, status, tags, bulk_quantity, bulk_price`

	listProductsSQL = `SELECT ` + productColumns + ` FROM products
		WHERE ($1 = '' OR category = $1)
		  AND ($2 = '' OR $2 = ANY(tags))
		  AND ($3 OR status = 'active')
		ORDER BY id`

	getProductByIDSQL = `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	insertProductSQL = `INSERT INTO products
		(id, name, category, price, cost, quantity, unit, status, tags, bulk_quantity, bulk_price)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	updateProductSQL = `UPDATE products SET
		name = $2, category = $3, price = $4, cost = $5, quantity = $6,
		unit = $7, status = $8, tags = $9, bulk_quantity = $10, bulk_price = $11,
		updated_at = now()
		WHERE id = $1`

	archiveProductSQL = `UPDATE products SET status = 'archived', updated_at = now() WHERE id = $1`
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository returns a ProductRepository that uses the given pool.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

// List returns catalog products matching the filter, ordered by ID.
func (r *ProductRepository) List(ctx context.Context, f product.Filter) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listProductsSQL, f.Category, f.Tag, f.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return pgx.CollectRows(rows, scanProduct)
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*product.Product, error) {
	rows, err := r.pool.Query(ctx, getProductByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %q: %w", id, err)
	}
	return &p, nil
}

// Create inserts a new catalog product.
func (r *ProductRepository) Create(ctx context.Context, p *product.Product) error {
	_, err := r.pool.Exec(ctx, insertProductSQL,
		p.ID, p.Name, p.Category, p.Price, p.Cost, p.Quantity,
		p.Unit, string(p.Status), p.Tags, p.BulkQuantity, nullDecimal(p.BulkPrice),
	)
	if err != nil {
		return fmt.Errorf("creating product %q: %w", p.ID, err)
	}
	return nil
}

// Update overwrites an existing product's fields.
func (r *ProductRepository) Update(ctx context.Context, p *product.Product) error {
	tag, err := r.pool.Exec(ctx, updateProductSQL,
		p.ID, p.Name, p.Category, p.Price, p.Cost, p.Quantity,
		p.Unit, string(p.Status), p.Tags, p.BulkQuantity, nullDecimal(p.BulkPrice),
	)
	if err != nil {
		return fmt.Errorf("updating product %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

// Archive marks a product archived, hiding it from the storefront.
func (r *ProductRepository) Archive(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, archiveProductSQL, id)
	if err != nil {
		return fmt.Errorf("archiving product %q: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.CollectableRow) (product.Product, error) {
	var (
		p         product.Product
		status    string
		bulkPrice decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Category, &p.Price, &p.Cost, &p.Quantity,
		&p.Unit, &status, &p.Tags, &p.BulkQuantity, &bulkPrice,
	)
	p.Status = product.Status(status)
	if bulkPrice.Valid {
		p.BulkPrice = &bulkPrice.Decimal
	}
	return p, err
}

// nullDecimal converts an optional decimal into its NUMERIC NULL form.
func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
