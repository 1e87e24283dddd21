package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

// CategoryDraft carries the caller-editable fields of a category. The
// identity is never part of a draft; the store assigns it on creation and
// updates preserve it.
type CategoryDraft struct {
	Name        string
	Description string
}

// CategoryService implements the category operations of the catalog.
// Every method returns a well-formed envelope; adapter faults are logged and
// degraded to an internal-error envelope instead of propagating.
type CategoryService struct {
	categories category.Repository
	tx         Tx
}

// NewCategoryService creates a CategoryService with the required dependencies.
func NewCategoryService(categories category.Repository, tx Tx) *CategoryService {
	return &CategoryService{categories: categories, tx: tx}
}

// ListCategories returns every persisted category in store order. An empty
// catalog is still a success.
func (s *CategoryService) ListCategories(ctx context.Context) *CategoryResult {
	categories, err := s.categories.List(ctx)
	if err != nil {
		zctx.From(ctx).Error("list categories", zap.Error(err))
		return internalCategories()
	}
	return okCategories("Categories found", categories...)
}

// GetCategory returns the category with the given identity as a
// single-element payload.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) *CategoryResult {
	c, err := s.categories.GetByID(ctx, id)
	switch {
	case errors.Is(err, category.ErrNotFound):
		return failCategories(OutcomeNotFound, "Category not found")
	case err != nil:
		zctx.From(ctx).Error("get category", zap.Int64("id", id), zap.Error(err))
		return internalCategories()
	}
	return okCategories("Category found", *c)
}

// CreateCategory persists a new category and returns the record with its
// store-assigned identity.
func (s *CategoryService) CreateCategory(ctx context.Context, draft CategoryDraft) *CategoryResult {
	var res *CategoryResult
	err := s.tx.WithinTx(ctx, func(categories category.Repository, _ product.Repository) error {
		saved, err := categories.Save(ctx, category.Category{
			Name:        draft.Name,
			Description: draft.Description,
		})
		switch {
		case errors.Is(err, category.ErrRejected):
			res = failCategories(OutcomeRejected, "Category not saved")
			return nil
		case err != nil:
			return errors.Wrap(err, "save category")
		case saved == nil:
			res = failCategories(OutcomeRejected, "Category not saved")
			return nil
		}
		res = okCategories("Category saved", *saved)
		return nil
	})
	if err != nil {
		zctx.From(ctx).Error("create category", zap.Error(err))
		return internalCategories()
	}
	return res
}

// UpdateCategory overwrites the name and description of an existing category,
// preserving its identity, and returns the updated record.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, draft CategoryDraft) *CategoryResult {
	var res *CategoryResult
	err := s.tx.WithinTx(ctx, func(categories category.Repository, _ product.Repository) error {
		current, err := categories.GetByID(ctx, id)
		switch {
		case errors.Is(err, category.ErrNotFound):
			res = failCategories(OutcomeNotFound, "Category not found")
			return nil
		case err != nil:
			return errors.Wrap(err, "fetch category")
		}

		updated, err := categories.Save(ctx, mergeCategory(*current, draft))
		switch {
		case errors.Is(err, category.ErrRejected):
			res = failCategories(OutcomeRejected, "Category not updated")
			return nil
		case err != nil:
			return errors.Wrap(err, "save category")
		case updated == nil:
			res = failCategories(OutcomeRejected, "Category not updated")
			return nil
		}
		res = okCategories("Category updated", *updated)
		return nil
	})
	if err != nil {
		zctx.From(ctx).Error("update category", zap.Int64("id", id), zap.Error(err))
		return internalCategories()
	}
	return res
}

// DeleteCategory removes a category by identity without a prior existence
// check; deleting an absent identity reports success all the same. A category
// still referenced by products fails at the store and surfaces as an
// internal error, matching the unconditional-delete contract.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) *CategoryResult {
	var res *CategoryResult
	err := s.tx.WithinTx(ctx, func(categories category.Repository, _ product.Repository) error {
		if err := categories.DeleteByID(ctx, id); err != nil {
			return errors.Wrap(err, "delete category")
		}
		res = okCategories("Category deleted")
		return nil
	})
	if err != nil {
		zctx.From(ctx).Error("delete category", zap.Int64("id", id), zap.Error(err))
		return internalCategories()
	}
	return res
}

// mergeCategory applies a draft to the current record as a field-level patch,
// returning a new value with the identity untouched.
func mergeCategory(current category.Category, draft CategoryDraft) category.Category {
	current.Name = draft.Name
	current.Description = draft.Description
	return current
}
