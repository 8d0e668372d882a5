package extract

import "testing"

// TestScanFormulaAttributes_Sequence verifies zero-based numbering in
// match order within one attribute kind.
func TestScanFormulaAttributes_Sequence(t *testing.T) {
	t.Parallel()

	got := ScanFormulaAttributes(`formula="A+B" junk formula='C*2'`, "DP1")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %#v", len(got), got)
	}
	if got[0].ID != "DP1_FORM_0" || got[0].Expression != "A+B" {
		t.Fatalf("unexpected first entry: %#v", got[0])
	}
	if got[1].ID != "DP1_FORM_1" || got[1].Expression != "C*2" {
		t.Fatalf("unexpected second entry: %#v", got[1])
	}
}

// TestScanFormulaAttributes_KindRestart verifies each attribute kind
// restarts its counter at zero, so a later kind reusing a taken sequence
// number replaces that entry's expression in place while keeping its
// position, and only the overflow extends the list.
func TestScanFormulaAttributes_KindRestart(t *testing.T) {
	t.Parallel()

	got := ScanFormulaAttributes(`formula="F0" expression="E0" expression="E1"`, "DP2")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %#v", len(got), got)
	}
	if got[0].ID != "DP2_FORM_0" || got[0].Expression != "E0" {
		t.Fatalf("expected entry 0 overwritten by the expression scan, got %#v", got[0])
	}
	if got[1].ID != "DP2_FORM_1" || got[1].Expression != "E1" {
		t.Fatalf("unexpected second entry: %#v", got[1])
	}
}

// TestScanFormulaAttributes_CaseAndTrim verifies attribute names match
// case-insensitively and values are trimmed.
func TestScanFormulaAttributes_CaseAndTrim(t *testing.T) {
	t.Parallel()

	got := ScanFormulaAttributes(`CALCULATION=' [A] / [B] '`, "DP3")
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d: %#v", len(got), got)
	}
	if got[0].ID != "DP3_FORM_0" || got[0].Expression != "[A] / [B]" {
		t.Fatalf("unexpected entry: %#v", got[0])
	}
}
