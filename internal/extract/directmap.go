package extract

import (
	"regexp"
	"strings"

	"widmap/internal/mapping"
)

var (
	// assignRe matches assignment shapes like "Total = 42, DP1.DO7" with
	// comma, semicolon or whitespace before the reference token. The
	// value capture stops at the first comma/semicolon, so values holding
	// literal commas mis-split; the source grammar is undocumented and
	// this boundary is kept as-is.
	assignRe = regexp.MustCompile(`(?i)([^=\n]+?)\s*=\s*([^,;\n]+)[,;\s]+(DP\d+\.DO\w+)`)

	// tokenRe matches bare DP<n>.DO<token> references.
	tokenRe = regexp.MustCompile(`(?i)DP\d+\.DO\w+`)
)

// ScanDirectMappings extracts assignment-style field references from raw
// decoded provider text. Two passes share one insertion-ordered set:
// assignments first (name and sample value captured, last assignment for
// a token wins), then bare tokens, which only fill gaps and never
// overwrite an assignment.
func ScanDirectMappings(text string) []mapping.DirectMapping {
	var (
		order []string
		byID  = make(map[string]mapping.DirectMapping)
	)

	for _, m := range assignRe.FindAllStringSubmatch(text, -1) {
		tid := m[3]
		if _, ok := byID[tid]; !ok {
			order = append(order, tid)
		}
		byID[tid] = mapping.DirectMapping{
			TechnicalID: tid,
			DisplayName: strings.TrimSpace(m[1]),
			SampleValue: strings.TrimSpace(m[2]),
		}
	}

	for _, tid := range tokenRe.FindAllString(text, -1) {
		if _, ok := byID[tid]; ok {
			continue
		}
		order = append(order, tid)
		byID[tid] = mapping.DirectMapping{TechnicalID: tid}
	}

	out := make([]mapping.DirectMapping, 0, len(order))
	for _, tid := range order {
		out = append(out, byID[tid])
	}
	return out
}
