package extract

import (
	"regexp"
	"strings"
)

var (
	wordEmpRe      = regexp.MustCompile(`\bemp\b`)
	wordUniverseRe = regexp.MustCompile(`\buniverses?\b`)
)

// ClassifyFragment guesses the query-spec dialect of a provider from its
// fragment text. Marker checks run in priority order against the lowered
// text; an empty fragment or no match returns fallback unchanged.
func ClassifyFragment(fragment, fallback string) string {
	if fragment == "" {
		return fallback
	}
	low := strings.ToLower(fragment)
	switch {
	case strings.Contains(low, "com.sap.sl.queryspec") || strings.Contains(low, "bex"):
		return "BEx"
	case wordEmpRe.MatchString(low):
		return "EMP"
	case wordUniverseRe.MatchString(low):
		return "universes"
	}
	return fallback
}
