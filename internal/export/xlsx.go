// Package export renders catalog listings to downloadable spreadsheet
// streams. It consumes the payload sequences produced by the list
// operations; column layout is its own concern, not part of the catalog
// contract.
package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/withnacho/bikestore-catalog/internal/domain/category"
	"github.com/withnacho/bikestore-catalog/internal/domain/product"
)

// Categories writes an xlsx workbook with one row per category to w.
func Categories(w io.Writer, categories []category.Category) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Categories"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"ID", "Name", "Description"}); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, c := range categories {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &[]any{c.ID, c.Name, c.Description}); err != nil {
			return errors.Wrap(err, "write row")
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// Products writes an xlsx workbook with one row per product to w. Prices are
// rendered in currency units with two decimal places; pictures are not
// exported.
func Products(w io.Writer, products []product.Product) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Products"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.Wrap(err, "rename sheet")
	}
	if err := f.SetSheetRow(sheet, "A1", &[]any{"ID", "Name", "Price", "Quantity", "Category"}); err != nil {
		return errors.Wrap(err, "write header")
	}

	for i, p := range products {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		row := []any{p.ID, p.Name, formatPrice(p.Price), p.Quantity, p.Category.Name}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrap(err, "write row")
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

// formatPrice converts an amount in the smallest currency unit to a decimal
// string in currency units, e.g. 50000 -> "500.00".
func formatPrice(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
