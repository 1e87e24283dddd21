// Package handler maps HTTP requests onto catalog operations. It is a thin
// layer: request parsing on the way in, envelope encoding and status pairing
// on the way out, no business logic.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/withnacho/bikestore-catalog/internal/domain/catalog"
)

// CategoryOperations is the category slice of the catalog consumed by the
// HTTP layer.
type CategoryOperations interface {
	ListCategories(ctx context.Context) *catalog.CategoryResult
	GetCategory(ctx context.Context, id int64) *catalog.CategoryResult
	CreateCategory(ctx context.Context, draft catalog.CategoryDraft) *catalog.CategoryResult
	UpdateCategory(ctx context.Context, id int64, draft catalog.CategoryDraft) *catalog.CategoryResult
	DeleteCategory(ctx context.Context, id int64) *catalog.CategoryResult
}

// ProductOperations is the product slice of the catalog consumed by the HTTP
// layer.
type ProductOperations interface {
	ListProducts(ctx context.Context) *catalog.ProductResult
	GetProduct(ctx context.Context, id int64) *catalog.ProductResult
	FindByName(ctx context.Context, name string) *catalog.ProductResult
	CreateProduct(ctx context.Context, draft catalog.ProductDraft, categoryID int64) *catalog.ProductResult
	UpdateProduct(ctx context.Context, draft catalog.ProductDraft, categoryID, id int64) *catalog.ProductResult
	DeleteProduct(ctx context.Context, id int64) *catalog.ProductResult
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// MaxUploadBytes caps the size of multipart product requests.
	MaxUploadBytes int64
}

// Handler serves the catalog API, delegating to the catalog services.
type Handler struct {
	categories     CategoryOperations
	products       ProductOperations
	maxUploadBytes int64
}

// New constructs a Handler with the required catalog dependencies.
func New(cfg Config, categories CategoryOperations, products ProductOperations) *Handler {
	return &Handler{
		categories:     categories,
		products:       products,
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// Register mounts all API routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/categories", h.listCategories)
	mux.HandleFunc("GET /api/v1/categories/export/excel", h.exportCategories)
	mux.HandleFunc("GET /api/v1/categories/{id}", h.getCategory)
	mux.HandleFunc("POST /api/v1/categories", h.createCategory)
	mux.HandleFunc("PUT /api/v1/categories/{id}", h.updateCategory)
	mux.HandleFunc("DELETE /api/v1/categories/{id}", h.deleteCategory)

	mux.HandleFunc("GET /api/v1/products", h.listProducts)
	mux.HandleFunc("GET /api/v1/products/export/excel", h.exportProducts)
	mux.HandleFunc("GET /api/v1/products/filter/{name}", h.findProductsByName)
	mux.HandleFunc("GET /api/v1/products/{id}", h.getProduct)
	mux.HandleFunc("POST /api/v1/products", h.createProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", h.updateProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", h.deleteProduct)
}

// pathID parses the {id} path segment. The second return value is false when
// the segment is not a positive integer; the caller is expected to have
// already responded in that case.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}
