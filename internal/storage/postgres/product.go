package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository implements product.Repository backed by PostgreSQL.
// Products are loaded with their owning category joined in, so the service
// layer always works with fully assembled records.
type ProductRepository struct {
	q Querier
}

// NewProductRepository returns a ProductRepository using the given querier.
func NewProductRepository(q Querier) *ProductRepository {
	return &ProductRepository{q: q}
}

const productColumns = `
	p.id, p.name, p.price, p.quantity, p.picture,
	c.id, c.name, c.description`

// List returns all products ordered by ID.
func (r *ProductRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT`+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return scanProducts(rows)
}

// FindByName returns products whose name contains the given text,
// case-insensitively, ordered by ID.
func (r *ProductRepository) FindByName(ctx context.Context, name string) ([]product.Product, error) {
	rows, err := r.q.Query(ctx, `
		SELECT`+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.name ILIKE '%' || $1 || '%'
		ORDER BY p.id`, name)
	if err != nil {
		return nil, fmt.Errorf("finding products by name %q: %w", name, err)
	}
	return scanProducts(rows)
}

// GetByID returns a single product by its identifier. It returns
// product.ErrNotFound when no matching record exists.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*product.Product, error) {
	row := r.q.QueryRow(ctx, `
		SELECT`+productColumns+`
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return p, nil
}

// Save inserts the product when its ID is zero and overwrites the existing
// record otherwise. Constraint violations map to product.ErrRejected.
func (r *ProductRepository) Save(ctx context.Context, p product.Product) (*product.Product, error) {
	var (
		saved product.Product
		err   error
	)
	if p.ID == 0 {
		err = r.q.QueryRow(ctx, `
			INSERT INTO products (name, price, quantity, picture, category_id)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, name, price, quantity, picture`,
			p.Name, p.Price, p.Quantity, p.Picture, p.Category.ID,
		).Scan(&saved.ID, &saved.Name, &saved.Price, &saved.Quantity, &saved.Picture)
	} else {
		err = r.q.QueryRow(ctx, `
			UPDATE products
			SET name = $2, price = $3, quantity = $4, picture = $5, category_id = $6
			WHERE id = $1
			RETURNING id, name, price, quantity, picture`,
			p.ID, p.Name, p.Price, p.Quantity, p.Picture, p.Category.ID,
		).Scan(&saved.ID, &saved.Name, &saved.Price, &saved.Quantity, &saved.Picture)
	}
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, product.ErrNotFound
		case isRejection(err):
			return nil, errors.Wrap(product.ErrRejected, err.Error())
		}
		return nil, fmt.Errorf("saving product: %w", err)
	}
	saved.Category = p.Category
	return &saved, nil
}

// DeleteByID removes the product unconditionally. Zero affected rows is not
// an error.
func (r *ProductRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting product %d: %w", id, err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var p product.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Price, &p.Quantity, &p.Picture,
		&p.Category.ID, &p.Category.Name, &p.Category.Description,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanProducts(rows pgx.Rows) ([]product.Product, error) {
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading products: %w", err)
	}
	return products, nil
}
