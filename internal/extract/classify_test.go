package extract

import "testing"

// TestClassifyFragment covers the marker priority order, the word
// boundary on short markers and the fallback for unmarked or absent
// fragments.
func TestClassifyFragment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		fragment string
		want     string
	}{
		{"queryspec namespace", `<QuerySpec xmlns="com.sap.sl.queryspec">x</QuerySpec>`, "BEx"},
		{"bex substring", `<QuerySpec source="BEXQ1"/>`, "BEx"},
		{"marker priority", `<QuerySpec universe="U" source="bex"/>`, "BEx"},
		{"emp word", `<QuerySpec provider="emp"/>`, "EMP"},
		{"emp needs boundary", `<QuerySpec note="temperature"/>`, "DP4"},
		{"universe singular", `<QuerySpec universe="Sales"/>`, "universes"},
		{"universes plural", `<QuerySpec kind="universes"/>`, "universes"},
		{"no marker", `<QuerySpec/>`, "DP4"},
		{"empty fragment", "", "DP4"},
	}
	for _, tc := range cases {
		if got := ClassifyFragment(tc.fragment, "DP4"); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
}
