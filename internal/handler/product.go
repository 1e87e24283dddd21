package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/withnacho/bikestore-catalog/internal/domain/catalog"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	writeProductResult(w, h.products.ListProducts(r.Context()))
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeProductResult(w, h.products.GetProduct(r.Context(), id))
}

func (h *Handler) findProductsByName(w http.ResponseWriter, r *http.Request) {
	writeProductResult(w, h.products.FindByName(r.Context(), r.PathValue("name")))
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	draft, categoryID, ok := h.decodeProductForm(w, r)
	if !ok {
		return
	}
	writeProductResult(w, h.products.CreateProduct(r.Context(), draft, categoryID))
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	draft, categoryID, ok := h.decodeProductForm(w, r)
	if !ok {
		return
	}
	writeProductResult(w, h.products.UpdateProduct(r.Context(), draft, categoryID, id))
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeProductResult(w, h.products.DeleteProduct(r.Context(), id))
}

// decodeProductForm reads the multipart product form: a "picture" file plus
// the "name", "price", "quantity" and "categoryId" fields. The last return
// value is false when the form is malformed; an error response has been
// written in that case.
func (h *Handler) decodeProductForm(w http.ResponseWriter, r *http.Request) (catalog.ProductDraft, int64, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart form")
		return catalog.ProductDraft{}, 0, false
	}

	file, _, err := r.FormFile("picture")
	if err != nil {
		writeError(w, http.StatusBadRequest, "picture file is required")
		return catalog.ProductDraft{}, 0, false
	}
	defer func() { _ = file.Close() }()

	picture, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read picture")
		return catalog.ProductDraft{}, 0, false
	}

	price, err := strconv.ParseInt(r.FormValue("price"), 10, 64)
	if err != nil || price < 0 {
		writeError(w, http.StatusBadRequest, "invalid price")
		return catalog.ProductDraft{}, 0, false
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil || quantity < 0 {
		writeError(w, http.StatusBadRequest, "invalid quantity")
		return catalog.ProductDraft{}, 0, false
	}

	categoryID, err := strconv.ParseInt(r.FormValue("categoryId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid categoryId")
		return catalog.ProductDraft{}, 0, false
	}

	return catalog.ProductDraft{
		Name:     r.FormValue("name"),
		Price:    price,
		Quantity: quantity,
		Picture:  picture,
	}, categoryID, true
}
