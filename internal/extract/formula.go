package extract

import (
	"fmt"
	"regexp"
	"strings"

	"widmap/internal/mapping"
)

// formulaAttrRes are scanned in priority order; each kind numbers its
// matches independently from zero.
var formulaAttrRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)formula=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)expression=["']([^"']+)["']`),
	regexp.MustCompile(`(?i)calculation=["']([^"']+)["']`),
}

// ScanFormulaAttributes captures bare formula=, expression= and
// calculation= attribute values from raw provider text, independent of any
// enclosing element. Ids are synthesized as <providerID>_FORM_<i> with the
// counter restarting per attribute kind, so a later kind reusing a taken
// sequence number replaces that entry's expression in place while keeping
// its original position.
func ScanFormulaAttributes(text, providerID string) []mapping.FormulaEntry {
	var (
		order []string
		byID  = make(map[string]string)
	)

	for _, re := range formulaAttrRes {
		for i, m := range re.FindAllStringSubmatch(text, -1) {
			id := fmt.Sprintf("%s_FORM_%d", providerID, i)
			if _, ok := byID[id]; !ok {
				order = append(order, id)
			}
			byID[id] = strings.TrimSpace(m[1])
		}
	}

	out := make([]mapping.FormulaEntry, 0, len(order))
	for _, id := range order {
		out = append(out, mapping.FormulaEntry{ID: id, Expression: byID[id]})
	}
	return out
}
