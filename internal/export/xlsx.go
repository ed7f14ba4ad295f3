// Package export writes the current preview to a workbook.
package export

import (
	"fmt"
	"io"

	"customer-insights/internal/model"
	"customer-insights/internal/stats"

	"github.com/xuri/excelize/v2"
)

const (
	SheetPreview    = "Preview"
	SheetCategories = "Categories"
)

// WriteXLSX writes two sheets: the preview rows with the table's header, and
// the category distribution under field.
func WriteXLSX(w io.Writer, rows []model.Row, field string, dist []model.CategoryCount) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetPreview); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	tbl := stats.Tabulate(rows, 0)
	if err := writeRow(f, SheetPreview, 1, toAny(tbl.Headers)); err != nil {
		return err
	}
	for i, r := range tbl.Rows {
		if err := writeRow(f, SheetPreview, i+2, toAny(r)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SheetCategories); err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	if err := writeRow(f, SheetCategories, 1, []any{field, "count"}); err != nil {
		return err
	}
	for i, c := range dist {
		if err := writeRow(f, SheetCategories, i+2, []any{c.Category, c.Count}); err != nil {
			return err
		}
	}
	if err := writeRow(f, SheetCategories, len(dist)+2, []any{"Total", stats.Total(dist)}); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
