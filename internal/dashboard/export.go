package dashboard

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"weather-dashboard-go/internal/projection"
)

const (
	sheetSeries     = "Series"
	sheetCategories = "Categories"
)

// WriteWorkbook writes the projected series as an xlsx workbook: one row per
// day on the Series sheet and the category distribution on its own sheet.
func WriteWorkbook(s projection.Series, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSeries); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetSeries, "A1", &[]interface{}{"Date", "Max Temp", "Min Temp", "Range"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, label := range s.Labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{label, s.High[i], s.Low[i], s.Spread[i]}
		if err := f.SetSheetRow(sheetSeries, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if _, err := f.NewSheet(sheetCategories); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetCategories, "A1", &[]interface{}{"Condition", "Days"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range projection.SortedCategories(s.CategoryCounts) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetCategories, cell, &[]interface{}{c.Category, c.Count}); err != nil {
			return fmt.Errorf("write category %q: %w", c.Category, err)
		}
	}

	_, err := f.WriteTo(w)
	return err
}
