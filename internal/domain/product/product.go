package product

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// ErrRejected is returned when the store declines to persist a product,
// e.g. a constraint violation on the record's fields.
var ErrRejected = errors.New("product rejected by store")

// Product is a catalog item. Every product belongs to exactly one category.
// Price is the non-negative amount in the smallest currency unit. Picture
// holds the image bytes: compressed at rest, raw on read paths that return
// the product to a caller.
type Product struct {
	ID       int64
	Name     string
	Price    int64
	Quantity int
	Picture  []byte
	Category category.Category
}

// Repository defines durable keyed storage for products.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	// FindByName returns products whose name contains the given text,
	// matched case-insensitively.
	FindByName(ctx context.Context, name string) ([]Product, error)
	// Save inserts the product when its ID is zero and overwrites the
	// existing record otherwise. It returns the persisted record with the
	// store-assigned ID.
	Save(ctx context.Context, p Product) (*Product, error)
	// DeleteByID removes the product unconditionally. Deleting an absent ID
	// is not an error.
	DeleteByID(ctx context.Context, id int64) error
}
