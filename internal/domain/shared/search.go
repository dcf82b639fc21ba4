package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText lower-cases s and strips diacritics ("José" -> "jose").
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

// MatchesSearch reports whether any field contains the search term.
// A blank term matches everything.
func MatchesSearch(search string, fields ...string) bool {
	term := strings.TrimSpace(search)
	if term == "" {
		return true
	}
	term = FoldText(term)
	for _, f := range fields {
		if strings.Contains(FoldText(f), term) {
			return true
		}
	}
	return false
}

// FilterBySearch keeps the items whose fields match the search term.
func FilterBySearch[T any](items []T, search string, fields func(T) []string) []T {
	if strings.TrimSpace(search) == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if MatchesSearch(search, fields(it)...) {
			out = append(out, it)
		}
	}
	return out
}
