// Package textutil holds the canonical text normalization used for all
// catalog matching. Normalized outputs are persisted (product normalized
// names, synonyms, rule terms), so the transform must stay stable.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Normalize canonicalizes a raw token for comparison: diacritics stripped,
// ASCII-uppercased, runs of whitespace and punctuation collapsed to single
// spaces, trimmed. Normalize is idempotent and deterministic.
func Normalize(text string) string {
	stripped, _, err := transform.String(stripDiacritics, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	pendingSpace := false
	for _, r := range stripped {
		switch {
		case r >= 'a' && r <= 'z':
			r -= 'a' - 'A'
			fallthrough
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
		default:
			pendingSpace = true
		}
	}
	return b.String()
}

// Equal reports whether two raw strings normalize to the same key.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
