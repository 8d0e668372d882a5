package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"widmap/internal/mapping"
)

// Workbook sheet names.
const (
	SheetAll        = "All Fields"
	SheetCalculated = "Calculated Fields"
	SheetData       = "Data Fields"
)

// WriteWorkbook writes the catalog to path. All three sheets are always
// present; a sheet whose view is empty still carries the header row, so
// downstream notebooks can address sheets by name unconditionally.
func WriteWorkbook(path string, recs []mapping.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAll); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSheet(f, SheetAll, recs); err != nil {
		return err
	}

	views := []struct {
		name string
		rows []mapping.Record
	}{
		{SheetCalculated, CalculatedView(recs)},
		{SheetData, DataFieldView(recs)},
	}
	for _, v := range views {
		if _, err := f.NewSheet(v.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", v.name, err)
		}
		if err := writeSheet(f, v.name, v.rows); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, recs []mapping.Record) error {
	header := make([]any, len(mapping.Columns))
	for i, c := range mapping.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, r := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		cells := r.Row()
		row := make([]any, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
