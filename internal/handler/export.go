package handler

import (
	"bytes"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/withnacho/bikestore-catalog/internal/export"
)

// exportCategories streams the full category listing as an xlsx attachment.
// The workbook is rendered before any header goes out, so a render failure
// still produces a proper error response instead of a truncated download.
func (h *Handler) exportCategories(w http.ResponseWriter, r *http.Request) {
	res := h.categories.ListCategories(r.Context())
	if !res.OK() {
		writeCategoryResult(w, res)
		return
	}

	var buf bytes.Buffer
	if err := export.Categories(&buf, res.Categories); err != nil {
		zctx.From(r.Context()).Error("export categories", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot render export")
		return
	}

	setAttachmentHeaders(w, "result_category.xlsx")
	_, _ = w.Write(buf.Bytes())
}

// exportProducts streams the full product listing as an xlsx attachment. An
// empty catalog yields the same not-found envelope as the list operation.
func (h *Handler) exportProducts(w http.ResponseWriter, r *http.Request) {
	res := h.products.ListProducts(r.Context())
	if !res.OK() {
		writeProductResult(w, res)
		return
	}

	var buf bytes.Buffer
	if err := export.Products(&buf, res.Products); err != nil {
		zctx.From(r.Context()).Error("export products", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cannot render export")
		return
	}

	setAttachmentHeaders(w, "result_product.xlsx")
	_, _ = w.Write(buf.Bytes())
}

func setAttachmentHeaders(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
}
