package mapping

import "testing"

// TestMergeProviderPrecedence verifies that a technical id captured by the
// XML miner suppresses the direct-mapping record for the same id, while
// unrelated direct mappings still come through.
func TestMergeProviderPrecedence(t *testing.T) {
	t.Parallel()

	fields := []FieldInfo{
		{ID: "DP1.DO7", DisplayName: "Total", Expression: "", ElementKind: "object", DataType: "Numeric"},
	}
	direct := []DirectMapping{
		{TechnicalID: "DP1.DO7", DisplayName: "Shadowed", SampleValue: "42"},
		{TechnicalID: "DP1.DO9", DisplayName: "Kept", SampleValue: "7"},
	}

	out := MergeProvider("DP1", "universes", fields, direct, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d: %+v", len(out), out)
	}

	if out[0].TechnicalID != "DP1.DO7" || out[0].Description != "object, type=Numeric" {
		t.Fatalf("unexpected miner record %+v", out[0])
	}
	if out[0].FieldType != TypeDataField {
		t.Fatalf("expected %q for empty expression, got %q", TypeDataField, out[0].FieldType)
	}
	if out[0].XMLID != "DP1.DO7" {
		t.Fatalf("expected XML id to carry the miner id, got %q", out[0].XMLID)
	}

	if out[1].TechnicalID != "DP1.DO9" || out[1].DisplayName != "Kept" || out[1].SampleValue != "7" {
		t.Fatalf("unexpected direct record %+v", out[1])
	}
	if out[1].Description != "Direct mapping" || out[1].XMLID != "" {
		t.Fatalf("unexpected direct record provenance %+v", out[1])
	}
}

// TestMergeProviderCalculatedType verifies expression-bearing miner fields
// are typed Calculated Field and keep their formula text.
func TestMergeProviderCalculatedType(t *testing.T) {
	t.Parallel()

	out := MergeProvider("DP1", "BEx", []FieldInfo{
		{ID: "F1", DisplayName: "Revenue", Expression: "SUM(X)", ElementKind: "object", Calculated: true},
	}, nil, nil)

	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	r := out[0]
	if r.FieldType != TypeCalculated || r.Formula != "SUM(X)" {
		t.Fatalf("unexpected calculated record %+v", r)
	}
	if r.DatabricksColumn != "revenue" {
		t.Fatalf("expected destination column %q, got %q", "revenue", r.DatabricksColumn)
	}
}

// TestMergeProviderNamelessDirectMapping verifies presence-only tokens
// derive their destination column from the technical id.
func TestMergeProviderNamelessDirectMapping(t *testing.T) {
	t.Parallel()

	out := MergeProvider("DP2", "DP2", nil, []DirectMapping{{TechnicalID: "DP2.DO4"}}, nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	if out[0].DisplayName != "" {
		t.Fatalf("expected empty display name, got %q", out[0].DisplayName)
	}
	if out[0].DatabricksColumn != "dp2do4" {
		t.Fatalf("expected destination column %q, got %q", "dp2do4", out[0].DatabricksColumn)
	}
}

// TestMergeProviderFormulas verifies formula-attribute entries are always
// appended with the synthetic display name and destination column.
func TestMergeProviderFormulas(t *testing.T) {
	t.Parallel()

	out := MergeProvider("DP1", "DP1", nil, nil, []FormulaEntry{
		{ID: "DP1_FORM_0", Expression: "A+B"},
	})
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}
	r := out[0]
	if r.DisplayName != "Formula DP1_FORM_0" || r.FieldType != TypeDPFormula {
		t.Fatalf("unexpected formula record %+v", r)
	}
	if r.Description != "From DP_Generic" {
		t.Fatalf("unexpected description %q", r.Description)
	}
	if r.DatabricksColumn != "formula_dp1_form_0" {
		t.Fatalf("unexpected destination column %q", r.DatabricksColumn)
	}
}

// TestMergeProviderEmpty verifies a provider with no extractable fields
// contributes zero rows rather than placeholders.
func TestMergeProviderEmpty(t *testing.T) {
	t.Parallel()

	if out := MergeProvider("DP3", "DP3", nil, nil, nil); len(out) != 0 {
		t.Fatalf("expected no records, got %+v", out)
	}
}

// TestDocumentRecords verifies document rows use the disjoint CALC/VAR
// namespace and keep calculated fields ahead of report variables.
func TestDocumentRecords(t *testing.T) {
	t.Parallel()

	out := DocumentRecords(
		[]DocEntry{{ID: "CF_0", Name: "Margin", Formula: "A-B", Description: "From Document"}},
		[]DocEntry{{ID: "RV_0", Name: "Period", Formula: "Q1", Description: "From Variables"}},
	)
	if len(out) != 2 {
		t.Fatalf("expected 2 records, got %d", len(out))
	}

	cf, rv := out[0], out[1]
	if cf.ProviderID != DocCalcProviderID || cf.ProviderName != DocCalcLabel || cf.FieldType != TypeCalculated {
		t.Fatalf("unexpected calculated-field record %+v", cf)
	}
	if rv.ProviderID != DocVarProviderID || rv.ProviderName != DocVarLabel || rv.FieldType != TypeReportVar {
		t.Fatalf("unexpected report-variable record %+v", rv)
	}
	if cf.DatabricksColumn != "margin" || rv.DatabricksColumn != "period" {
		t.Fatalf("unexpected destination columns %q %q", cf.DatabricksColumn, rv.DatabricksColumn)
	}
}
