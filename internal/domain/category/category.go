package category

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNotFound is returned when a requested category does not exist.
var ErrNotFound = errors.New("category not found")

// ErrRejected is returned when the store declines to persist a category,
// e.g. a constraint violation on the record's fields.
var ErrRejected = errors.New("category rejected by store")

// Category groups products under a named heading. The ID is assigned by the
// store on first save and never changes afterwards.
type Category struct {
	ID          int64
	Name        string
	Description string
}

// Repository defines durable keyed storage for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	// Save inserts the category when its ID is zero and overwrites the
	// existing record otherwise. It returns the persisted record with the
	// store-assigned ID.
	Save(ctx context.Context, c Category) (*Category, error)
	// DeleteByID removes the category unconditionally. Deleting an absent ID
	// is not an error.
	DeleteByID(ctx context.Context, id int64) error
}
