package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"widmap/internal/mapping"
)

// WriteCSV writes the full catalog as the CSV twin of the workbook's
// "All Fields" sheet, same column order.
func WriteCSV(path string, recs []mapping.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(mapping.Columns); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range recs {
		if err := w.Write(r.Row()); err != nil {
			f.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return f.Close()
}
