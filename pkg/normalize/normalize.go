// Package normalize folds free-text vehicle attributes into the comparison
// form used by the reference index and the field matcher.
//
// The normalized form is never shown to users: it exists only so that
// "EX-L", "ex-l" and "EXL " compare equal. Display strings always come from
// the canonical side.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripped punctuation is removed outright so "EX-L" and "EXL" coincide.
var stripped = map[rune]bool{
	'-': true,
	'.': true,
	'(': true,
	')': true,
	'‐': true, // hyphen
	'‑': true, // non-breaking hyphen
	'–': true, // en dash
}

// separators behave like whitespace.
var separators = map[rune]bool{
	'_': true,
	'/': true,
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// String returns the comparison form of s: diacritics folded, lowercased,
// stripped of hyphens, periods and parentheses, with whitespace trimmed and
// collapsed to single spaces. It is pure and idempotent.
func String(s string) string {
	if s == "" {
		return ""
	}

	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))

	pendingSpace := false
	for _, r := range folded {
		switch {
		case stripped[r]:
			continue
		case unicode.IsSpace(r) || separators[r]:
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

// Equal reports whether a and b normalize to the same comparison form.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

// IsBlank reports whether s has no comparable content once normalized.
func IsBlank(s string) bool {
	return String(s) == ""
}
