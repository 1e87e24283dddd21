package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/withnacho/bikestore-catalog/internal/domain/catalog"
	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

var _ catalog.Tx = (*TxRunner)(nil)

// TxRunner runs callbacks inside a single PostgreSQL transaction with both
// repositories bound to it, so a write operation's validation read and
// persist call stay atomic.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner returns a TxRunner using the given pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// WithinTx begins a transaction, invokes fn with tx-bound repositories, and
// commits. Any error from fn rolls the transaction back.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(categories category.Repository, products product.Repository) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewCategoryRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	return nil
}
