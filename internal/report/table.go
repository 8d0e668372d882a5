// Package report renders the extracted field catalog into its output
// artifacts: a three-sheet workbook, a CSV twin of the full table and a
// per-run HTML summary page.
package report

import (
	"sort"

	"widmap/internal/mapping"
)

// SortRecords orders the catalog by provider display label, then display
// name. The sort is stable, so rows tied on both keys keep their
// discovery order.
func SortRecords(recs []mapping.Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].ProviderName != recs[j].ProviderName {
			return recs[i].ProviderName < recs[j].ProviderName
		}
		return recs[i].DisplayName < recs[j].DisplayName
	})
}

// CalculatedView returns the rows holding derived expressions: calculated
// fields and report variables.
func CalculatedView(recs []mapping.Record) []mapping.Record {
	var out []mapping.Record
	for _, r := range recs {
		if isCalculated(r) {
			out = append(out, r)
		}
	}
	return out
}

// DataFieldView returns every row CalculatedView excludes.
func DataFieldView(recs []mapping.Record) []mapping.Record {
	var out []mapping.Record
	for _, r := range recs {
		if !isCalculated(r) {
			out = append(out, r)
		}
	}
	return out
}

func isCalculated(r mapping.Record) bool {
	return r.FieldType == mapping.TypeCalculated || r.FieldType == mapping.TypeReportVar
}
