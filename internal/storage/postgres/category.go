package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
)

var _ category.Repository = (*CategoryRepository)(nil)

// CategoryRepository implements category.Repository backed by PostgreSQL.
// Pass a pool for standalone use or a pgx.Tx to bind it to a transaction.
type CategoryRepository struct {
	q Querier
}

// NewCategoryRepository returns a CategoryRepository using the given querier.
func NewCategoryRepository(q Querier) *CategoryRepository {
	return &CategoryRepository{q: q}
}

// List returns all categories ordered by ID.
func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, name, description
		FROM categories
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []category.Category
	for rows.Next() {
		var c category.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	return categories, nil
}

// GetByID returns a single category by its identifier. It returns
// category.ErrNotFound when no matching record exists.
func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*category.Category, error) {
	var c category.Category
	err := r.q.QueryRow(ctx, `
		SELECT id, name, description
		FROM categories
		WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, category.ErrNotFound
		}
		return nil, fmt.Errorf("getting category %d: %w", id, err)
	}
	return &c, nil
}

// Save inserts the category when its ID is zero and overwrites the existing
// record otherwise. Constraint violations map to category.ErrRejected.
func (r *CategoryRepository) Save(ctx context.Context, c category.Category) (*category.Category, error) {
	var (
		saved category.Category
		err   error
	)
	if c.ID == 0 {
		err = r.q.QueryRow(ctx, `
			INSERT INTO categories (name, description)
			VALUES ($1, $2)
			RETURNING id, name, description`,
			c.Name, c.Description,
		).Scan(&saved.ID, &saved.Name, &saved.Description)
	} else {
		err = r.q.QueryRow(ctx, `
			UPDATE categories
			SET name = $2, description = $3
			WHERE id = $1
			RETURNING id, name, description`,
			c.ID, c.Name, c.Description,
		).Scan(&saved.ID, &saved.Name, &saved.Description)
	}
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, category.ErrNotFound
		case isRejection(err):
			return nil, errors.Wrap(category.ErrRejected, err.Error())
		}
		return nil, fmt.Errorf("saving category: %w", err)
	}
	return &saved, nil
}

// DeleteByID removes the category unconditionally. Zero affected rows is not
// an error; a category still referenced by products fails with the store's
// foreign key error.
func (r *CategoryRepository) DeleteByID(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deleting category %d: %w", id, err)
	}
	return nil
}
