package catalog

import (
	"context"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

// Codec is a reversible byte-stream transform used to shrink picture payloads
// before they are persisted and restore them on read paths. Implementations
// must be stateless: Decompress(Compress(b)) == b for every byte sequence,
// and concurrent calls must be safe.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Tx runs fn inside a single store transaction, with both repositories bound
// to it. Write operations use it so the validation read, the mutation, and
// the persist call stay atomic; fn returning an error rolls everything back.
type Tx interface {
	WithinTx(ctx context.Context, fn func(categories category.Repository, products product.Repository) error) error
}
