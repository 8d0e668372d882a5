package mapping

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns avoid recompilation on every call.
var (
	// Underscores are kept so that normalizing an already-normalized name
	// returns it unchanged.
	invalidRuneRe = regexp.MustCompile(`[^A-Za-z0-9_\s]`)
	spaceRunRe    = regexp.MustCompile(`\s+`)
)

// CleanColumnName converts a display name into a destination column
// identifier: strip every character that is not a letter, digit,
// underscore or whitespace; collapse whitespace runs to single
// underscores; trim leading/trailing underscores; lowercase. Non-empty
// results that do not start with a letter get an "f_" prefix. Empty input
// yields an empty string. The function is idempotent.
func CleanColumnName(name string) string {
	s := invalidRuneRe.ReplaceAllString(name, "")
	s = spaceRunRe.ReplaceAllString(s, "_")
	s = strings.ToLower(strings.Trim(s, "_"))
	if s == "" {
		return s
	}
	if s[0] < 'a' || s[0] > 'z' {
		s = "f_" + s
	}
	return s
}
