// Package extract pulls field candidates out of an opened report
// container. Four independent heuristics operate on the same decoded text:
// the query-spec XML miner, the direct-mapping scanner, the formula
// attribute scanner and the document-level scanners. Each returns its own
// candidate set; combining them is owned by the mapping package.
package extract

import "regexp"

// querySpecRe captures the first QuerySpec element block regardless of
// namespace prefix, case-insensitively, across newlines, non-greedy.
var querySpecRe = regexp.MustCompile(`(?is)<[^>]*QuerySpec[^>]*>.*?</[^>]*QuerySpec[^>]*>`)

// QuerySpecFragment returns the first query-specification XML block inside
// decoded provider text, or "" when none is present.
func QuerySpecFragment(text string) string {
	return querySpecRe.FindString(text)
}
