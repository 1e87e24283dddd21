package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/withnacho/bikestore-catalog/internal/domain/catalog"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeCategoryResult(w, h.categories.ListCategories(r.Context()))
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeCategoryResult(w, h.categories.GetCategory(r.Context(), id))
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	draft, ok := decodeCategoryDraft(w, r)
	if !ok {
		return
	}
	writeCategoryResult(w, h.categories.CreateCategory(r.Context(), draft))
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	draft, ok := decodeCategoryDraft(w, r)
	if !ok {
		return
	}
	writeCategoryResult(w, h.categories.UpdateCategory(r.Context(), id, draft))
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeCategoryResult(w, h.categories.DeleteCategory(r.Context(), id))
}

// decodeCategoryDraft reads a {"name": ..., "description": ...} JSON body.
// Unknown fields are skipped. The second return value is false when the body
// is unreadable or malformed; an error response has been written in that
// case.
func decodeCategoryDraft(w http.ResponseWriter, r *http.Request) (catalog.CategoryDraft, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return catalog.CategoryDraft{}, false
	}

	var draft catalog.CategoryDraft
	d := jx.DecodeBytes(body)
	err = d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "name":
			draft.Name, err = d.Str()
			return err
		case "description":
			draft.Description, err = d.Str()
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return catalog.CategoryDraft{}, false
	}
	return draft, true
}
