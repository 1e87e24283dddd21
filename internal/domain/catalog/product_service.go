package catalog

import (
	"context"
	"runtime"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

// ProductDraft carries the caller-editable fields of a product. Picture holds
// the raw image bytes; the service owns compression on every write path.
type ProductDraft struct {
	Name     string
	Price    int64
	Quantity int
	Picture  []byte
}

// ProductService implements the product operations of the catalog. It
// enforces that every write references an existing category, compresses
// pictures before they reach the store, and decompresses them on read paths
// that return products to a caller.
type ProductService struct {
	categories category.Repository
	products   product.Repository
	codec      Codec
	tx         Tx
}

// NewProductService creates a ProductService with the required dependencies.
func NewProductService(
	categories category.Repository,
	products product.Repository,
	codec Codec,
	tx Tx,
) *ProductService {
	return &ProductService{
		categories: categories,
		products:   products,
		codec:      codec,
		tx:         tx,
	}
}

// CreateProduct persists a new product attached to the category identified by
// categoryID. A missing category rejects the request before any write.
func (s *ProductService) CreateProduct(ctx context.Context, draft ProductDraft, categoryID int64) *ProductResult {
	compressed, err := s.codec.Compress(draft.Picture)
	if err != nil {
		zctx.From(ctx).Error("compress picture", zap.Error(err))
		return internalProducts()
	}

	var res *ProductResult
	err = s.tx.WithinTx(ctx, func(categories category.Repository, products product.Repository) error {
		owner, err := categories.GetByID(ctx, categoryID)
		switch {
		case errors.Is(err, category.ErrNotFound):
			res = failProducts(OutcomeNotFound, "Product Category not found")
			return nil
		case err != nil:
			return errors.Wrap(err, "fetch category")
		}

		saved, err := products.Save(ctx, product.Product{
			Name:     draft.Name,
			Price:    draft.Price,
			Quantity: draft.Quantity,
			Picture:  compressed,
			Category: *owner,
		})
		switch {
		case errors.Is(err, product.ErrRejected):
			res = failProducts(OutcomeRejected, "Product not saved")
			return nil
		case err != nil:
			return errors.Wrap(err, "save product")
		case saved == nil:
			res = failProducts(OutcomeRejected, "Product not saved")
			return nil
		}

		// The store holds the compressed form; the caller gets back the
		// bytes it sent. Copy first, the stored record stays untouched.
		p := *saved
		p.Picture = draft.Picture
		res = okProducts("Product saved", p)
		return nil
	})
	if err != nil {
		zctx.From(ctx).Error("create product", zap.Error(err))
		return internalProducts()
	}
	return res
}

// GetProduct returns the product with the given identity, picture
// decompressed, as a single-element payload.
func (s *ProductService) GetProduct(ctx context.Context, id int64) *ProductResult {
	p, err := s.products.GetByID(ctx, id)
	switch {
	case errors.Is(err, product.ErrNotFound):
		return failProducts(OutcomeNotFound, "Product not found")
	case err != nil:
		zctx.From(ctx).Error("get product", zap.Int64("id", id), zap.Error(err))
		return internalProducts()
	}

	raw, err := s.codec.Decompress(p.Picture)
	if err != nil {
		zctx.From(ctx).Error("decompress picture", zap.Int64("id", id), zap.Error(err))
		return internalProducts()
	}
	p.Picture = raw
	return okProducts("Product found", *p)
}

// ListProducts returns every persisted product with pictures decompressed.
// An empty catalog is reported as a not-found condition, not an empty
// success.
func (s *ProductService) ListProducts(ctx context.Context) *ProductResult {
	products, err := s.products.List(ctx)
	if err != nil {
		zctx.From(ctx).Error("list products", zap.Error(err))
		return internalProducts()
	}
	return s.inflateAll(ctx, products)
}

// FindByName returns the products whose name contains the given text,
// case-insensitively, with pictures decompressed. Zero matches are a
// not-found condition.
func (s *ProductService) FindByName(ctx context.Context, name string) *ProductResult {
	products, err := s.products.FindByName(ctx, name)
	if err != nil {
		zctx.From(ctx).Error("find products by name", zap.String("name", name), zap.Error(err))
		return internalProducts()
	}
	return s.inflateAll(ctx, products)
}

// UpdateProduct overwrites all caller-editable fields of an existing product,
// preserving its identity. The category reference is re-validated on every
// update because it may be retargeted.
func (s *ProductService) UpdateProduct(ctx context.Context, draft ProductDraft, categoryID, id int64) *ProductResult {
	compressed, err := s.codec.Compress(draft.Picture)
	if err != nil {
		zctx.From(ctx).Error("compress picture", zap.Error(err))
		return internalProducts()
	}

	var res *ProductResult
	err = s.tx.WithinTx(ctx, func(categories category.Repository, products product.Repository) error {
		owner, err := categories.GetByID(ctx, categoryID)
		switch {
		case errors.Is(err, category.ErrNotFound):
			res = failProducts(OutcomeNotFound, "Product Category not found")
			return nil
		case err != nil:
			return errors.Wrap(err, "fetch category")
		}

		current, err := products.GetByID(ctx, id)
		switch {
		case errors.Is(err, product.ErrNotFound):
			res = failProducts(OutcomeNotFound, "Product not updated")
			return nil
		case err != nil:
			return errors.Wrap(err, "fetch product")
		}

		updated, err := products.Save(ctx, mergeProduct(*current, draft, compressed, *owner))
		switch {
		case errors.Is(err, product.ErrRejected):
			res = failProducts(OutcomeRejected, "Product not updated")
			return nil
		case err != nil:
			return errors.Wrap(err, "save product")
		case updated == nil:
			res = failProducts(OutcomeRejected, "Product not updated")
			return nil
		}

		p := *updated
		p.Picture = draft.Picture
		res = okProducts("Product updated", p)
		return nil
	})
	if err != nil {
		zctx.From(ctx).Error("update product", zap.Int64("id", id), zap.Error(err))
		return internalProducts()
	}
	return res
}

// DeleteProduct removes a product by identity without a prior existence
// check; deleting an absent identity reports success all the same.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) *ProductResult {
	var res *ProductResult
	err := s.tx.WithinTx(ctx, func(_ category.Repository, products product.Repository) error {
		if err := products.DeleteByID(ctx, id); err != nil {
			return errors.Wrap(err, "delete product")
		}
		res = okProducts("Product deleted")
		return nil
	})
	if err != nil {
		zctx.From(ctx).Error("delete product", zap.Int64("id", id), zap.Error(err))
		return internalProducts()
	}
	return res
}

// inflateAll decompresses every product's picture concurrently and builds the
// list envelope. The fan-out is bounded so a large catalog cannot spawn an
// unbounded number of goroutines.
func (s *ProductService) inflateAll(ctx context.Context, products []product.Product) *ProductResult {
	if len(products) == 0 {
		return failProducts(OutcomeNotFound, "Products not found")
	}

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range products {
		g.Go(func() error {
			raw, err := s.codec.Decompress(products[i].Picture)
			if err != nil {
				return errors.Wrapf(err, "decompress picture of product %d", products[i].ID)
			}
			products[i].Picture = raw
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		zctx.From(ctx).Error("decompress pictures", zap.Error(err))
		return internalProducts()
	}
	return okProducts("Products found", products...)
}

// mergeProduct applies a draft to the current record as a field-level patch:
// quantity, category, name, picture (compressed form), and price are
// overwritten, the identity is untouched.
func mergeProduct(current product.Product, draft ProductDraft, compressedPicture []byte, owner category.Category) product.Product {
	current.Quantity = draft.Quantity
	current.Category = owner
	current.Name = draft.Name
	current.Picture = compressedPicture
	current.Price = draft.Price
	return current
}
