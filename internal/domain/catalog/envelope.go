// Package catalog implements the transactional business logic of the
// two-entity catalog: referential integrity between products and categories,
// the compress/decompress lifecycle of picture payloads, and the uniform
// result envelope returned by every operation.
package catalog

import (
	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

// Outcome classifies the result of a catalog operation. Expected control-flow
// outcomes (missing records, store rejections) carry their own variants;
// anything unanticipated degrades to OutcomeInternal.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotFound
	OutcomeRejected
	OutcomeInternal
)

// Metadata entry types and codes used by the envelope.
const (
	TypeOK    = "OK"
	TypeError = "ERROR"
	CodeOK    = "00"
	CodeError = "-1"
)

// internalMessage is the generic message for unanticipated adapter faults.
// The original cause never reaches the caller; it is logged instead.
const internalMessage = "INTERNAL SERVER ERROR"

// Metadata is one status entry of a result envelope.
type Metadata struct {
	Type    string
	Code    string
	Message string
}

// Status is the common part of every result envelope: the classified outcome
// plus the ordered metadata entries, one appended per operation outcome.
type Status struct {
	Outcome  Outcome
	Metadata []Metadata
}

// OK reports whether the operation succeeded.
func (s Status) OK() bool { return s.Outcome == OutcomeOK }

// CategoryResult is the envelope returned by every category operation.
// Categories is empty on failure paths.
type CategoryResult struct {
	Status
	Categories []category.Category
}

// ProductResult is the envelope returned by every product operation.
// Products is empty on failure paths.
type ProductResult struct {
	Status
	Products []product.Product
}

func okStatus(message string) Status {
	return Status{
		Outcome:  OutcomeOK,
		Metadata: []Metadata{{Type: TypeOK, Code: CodeOK, Message: message}},
	}
}

func failStatus(outcome Outcome, message string) Status {
	return Status{
		Outcome:  outcome,
		Metadata: []Metadata{{Type: TypeError, Code: CodeError, Message: message}},
	}
}

func okCategories(message string, categories ...category.Category) *CategoryResult {
	return &CategoryResult{Status: okStatus(message), Categories: categories}
}

func failCategories(outcome Outcome, message string) *CategoryResult {
	return &CategoryResult{Status: failStatus(outcome, message)}
}

func internalCategories() *CategoryResult {
	return failCategories(OutcomeInternal, internalMessage)
}

func okProducts(message string, products ...product.Product) *ProductResult {
	return &ProductResult{Status: okStatus(message), Products: products}
}

func failProducts(outcome Outcome, message string) *ProductResult {
	return &ProductResult{Status: failStatus(outcome, message)}
}

func internalProducts() *ProductResult {
	return failProducts(OutcomeInternal, internalMessage)
}
