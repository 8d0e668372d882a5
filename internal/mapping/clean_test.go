package mapping

import "testing"

// TestCleanColumnName exercises the normalization rules end to end:
// punctuation stripping, whitespace collapsing, lowercasing and the f_
// prefix for names that do not start with a letter.
func TestCleanColumnName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"Sales $ Amount 2024", "sales_amount_2024"},
		{"123abc", "f_123abc"},
		{"", ""},
		{"Revenue", "revenue"},
		{"  padded  name  ", "padded_name"},
		{"Total (net)", "total_net"},
		{"_underscored_", "underscored"},
		{"$$$", ""},
		{"9", "f_9"},
		{"café crème", "caf_crme"},
	}
	for _, tc := range cases {
		if got := CleanColumnName(tc.in); got != tc.want {
			t.Fatalf("CleanColumnName(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

// TestCleanColumnNameIdempotent verifies that normalizing an
// already-normalized name returns it unchanged.
func TestCleanColumnNameIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"Sales $ Amount 2024", "123abc", "Formula DP1_FORM_0", "x"} {
		once := CleanColumnName(in)
		twice := CleanColumnName(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
