package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/withnacho/bikestore-catalog/internal/domain/catalog"
	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

// statusFor pairs an envelope outcome with its HTTP status.
func statusFor(o catalog.Outcome) int {
	switch o {
	case catalog.OutcomeOK:
		return http.StatusOK
	case catalog.OutcomeNotFound:
		return http.StatusNotFound
	case catalog.OutcomeRejected:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError responds with a plain {code, message} error object, used for
// requests malformed before any catalog operation runs.
func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	writeJSON(w, status, e.Bytes())
}

func encodeMetadata(e *jx.Encoder, entries []catalog.Metadata) {
	e.FieldStart("metadata")
	e.ArrStart()
	for _, m := range entries {
		e.ObjStart()
		e.FieldStart("type")
		e.Str(m.Type)
		e.FieldStart("code")
		e.Str(m.Code)
		e.FieldStart("message")
		e.Str(m.Message)
		e.ObjEnd()
	}
	e.ArrEnd()
}

func encodeCategory(e *jx.Encoder, c category.Category) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(c.ID)
	e.FieldStart("name")
	e.Str(c.Name)
	e.FieldStart("description")
	e.Str(c.Description)
	e.ObjEnd()
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	e.Int64(p.Price)
	e.FieldStart("quantity")
	e.Int(p.Quantity)
	e.FieldStart("picture")
	e.Base64(p.Picture)
	e.FieldStart("category")
	encodeCategory(e, p.Category)
	e.ObjEnd()
}

func writeCategoryResult(w http.ResponseWriter, res *catalog.CategoryResult) {
	var e jx.Encoder
	e.ObjStart()
	encodeMetadata(&e, res.Metadata)
	e.FieldStart("categories")
	e.ArrStart()
	for _, c := range res.Categories {
		encodeCategory(&e, c)
	}
	e.ArrEnd()
	e.ObjEnd()
	writeJSON(w, statusFor(res.Outcome), e.Bytes())
}

func writeProductResult(w http.ResponseWriter, res *catalog.ProductResult) {
	var e jx.Encoder
	e.ObjStart()
	encodeMetadata(&e, res.Metadata)
	e.FieldStart("products")
	e.ArrStart()
	for _, p := range res.Products {
		encodeProduct(&e, p)
	}
	e.ArrEnd()
	e.ObjEnd()
	writeJSON(w, statusFor(res.Outcome), e.Bytes())
}
