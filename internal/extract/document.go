package extract

import (
	"fmt"
	"regexp"
	"strings"

	"widmap/internal/mapping"
)

// Document-level entry selection: an entry participates when its path
// contains any of the keywords, case-insensitively.
var (
	calcFieldKeywords = []string{"DOCUMENT", "REPORT", "STRUCTURE"}
	reportVarKeywords = []string{"DOCUMENT", "VARIABLE", "FORMULA"}
)

var (
	calcFieldRes = []*regexp.Regexp{
		regexp.MustCompile(`(?is)<CalculatedField[^>]+name=["']([^"']+)["'][^>]*>([^<]+)`),
		queryCalcRe,
	}
	reportVarRe = regexp.MustCompile(`(?i)Variable\s+([^=\s]+)\s*=\s*([^;]+);`)
)

// DocSource is one decoded document-level archive entry.
type DocSource struct {
	Name string
	Text string
}

// ScanCalculatedFields extracts document-wide calculated-field definitions
// from the given sources. Two alternative patterns run per source
// (CalculatedField elements with a body, then QueryCalculation
// alias/calculation pairs); ids are CF_<n> in discovery order across all
// sources and patterns. Each entry's description names its source.
func ScanCalculatedFields(sources []DocSource) []mapping.DocEntry {
	var out []mapping.DocEntry
	for _, src := range sources {
		for _, re := range calcFieldRes {
			for _, m := range re.FindAllStringSubmatch(src.Text, -1) {
				out = append(out, mapping.DocEntry{
					ID:          fmt.Sprintf("CF_%d", len(out)),
					Name:        strings.TrimSpace(m[1]),
					Formula:     strings.TrimSpace(m[2]),
					Description: "From " + src.Name,
				})
			}
		}
	}
	return out
}

// ScanReportVariables extracts legacy "Variable X = formula;" statements
// from the given sources, with RV_<n> ids in discovery order.
func ScanReportVariables(sources []DocSource) []mapping.DocEntry {
	var out []mapping.DocEntry
	for _, src := range sources {
		for _, m := range reportVarRe.FindAllStringSubmatch(src.Text, -1) {
			out = append(out, mapping.DocEntry{
				ID:          fmt.Sprintf("RV_%d", len(out)),
				Name:        strings.TrimSpace(m[1]),
				Formula:     strings.TrimSpace(m[2]),
				Description: "From " + src.Name,
			})
		}
	}
	return out
}

// pathMatchesAny reports whether the upper-cased entry path contains any
// keyword.
func pathMatchesAny(name string, keywords []string) bool {
	up := strings.ToUpper(name)
	for _, k := range keywords {
		if strings.Contains(up, k) {
			return true
		}
	}
	return false
}
