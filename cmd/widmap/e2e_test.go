//go:build e2e

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"widmap/internal/report"
)

// TestE2E_RealContainer runs the full pipeline over a real production
// container and validates the written outputs.
//
// Synthetic archives in the unit tests cannot cover the encoding and layout
// variety of real exports, so this test takes its input from the outside.
//
// Run:
//
//	WIDMAP_E2E=1 \
//	WIDMAP_E2E_INPUT="/path/to/real-report.wid" \
//	go test -tags=e2e ./cmd/widmap/
func TestE2E_RealContainer(t *testing.T) {
	if os.Getenv("WIDMAP_E2E") != "1" {
		t.Skip("set WIDMAP_E2E=1 to enable e2e tests against real containers")
	}
	input := strings.TrimSpace(os.Getenv("WIDMAP_E2E_INPUT"))
	if input == "" {
		t.Skip("set WIDMAP_E2E_INPUT to a real .wid container path")
	}

	outDir := t.TempDir()
	var out, errOut bytes.Buffer
	code := run(context.Background(), []string{"-v", input, outDir}, deps{Stdout: &out, Stderr: &errOut})
	if code != 0 {
		t.Fatalf("run()=%d, want 0\nstderr:\n%s", code, errOut.String())
	}

	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	csvPath := filepath.Join(outDir, base+"_field_map.csv")
	xlsxPath := filepath.Join(outDir, base+"_field_map.xlsx")

	csv, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read %s: %v", csvPath, err)
	}
	lines := strings.Count(strings.TrimRight(string(csv), "\n"), "\n") + 1
	if lines < 2 {
		t.Fatalf("csv has %d lines, want a header plus at least one row", lines)
	}

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	for _, sheet := range []string{report.SheetAll, report.SheetCalculated, report.SheetData} {
		if _, err := f.GetRows(sheet); err != nil {
			t.Fatalf("sheet %s: %v", sheet, err)
		}
	}

	if _, err := os.Stat(filepath.Join(outDir, report.SummaryFileName)); err != nil {
		t.Fatalf("summary page missing: %v", err)
	}
	t.Logf("e2e output:\n%s", out.String())
}
