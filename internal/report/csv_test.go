package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"widmap/internal/mapping"
)

// TestWriteCSV verifies the header and the full cell set round-trip
// through the standard reader.
func TestWriteCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	recs := []mapping.Record{
		{
			ProviderID:       "DP1",
			ProviderName:     "universes",
			TechnicalID:      "F1",
			DisplayName:      "Revenue",
			FieldType:        mapping.TypeCalculated,
			Formula:          "SUM(X)",
			Description:      "object, type=Numeric",
			DatabricksColumn: "revenue",
			XMLID:            "F1",
		},
		{ProviderID: "VAR", ProviderName: mapping.DocVarLabel, TechnicalID: "RV_0"},
	}
	if err := WriteCSV(path, recs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Data Provider ID" || rows[0][len(rows[0])-1] != "XML ID" {
		t.Fatalf("unexpected header: %#v", rows[0])
	}
	if len(rows[1]) != len(mapping.Columns) {
		t.Fatalf("expected %d cells, got %d", len(mapping.Columns), len(rows[1]))
	}
	if rows[1][3] != "Revenue" || rows[1][5] != "SUM(X)" || rows[1][9] != "revenue" {
		t.Fatalf("unexpected first row: %#v", rows[1])
	}
	if rows[2][0] != "VAR" || rows[2][1] != "Report Variables" {
		t.Fatalf("unexpected second row: %#v", rows[2])
	}
}

// TestWriteCSV_Empty verifies an empty catalog still writes the header,
// matching the workbook sheets.
func TestWriteCSV_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != len(mapping.Columns) {
		t.Fatalf("expected a lone header row, got %#v", rows)
	}
}
