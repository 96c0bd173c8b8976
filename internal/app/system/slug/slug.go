// Package slug derives URL slugs from human-readable headings.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Derive converts a heading to a URL-safe slug.
//
// Accents are folded to their base letter ("Café" -> "cafe") and
// compatibility forms to their plain equivalent ("Ｐａｉｄ" -> "paid"), the text is
// lowercased and every run of characters outside [a-z0-9] becomes a single
// hyphen. The result never starts or ends with a hyphen and may be empty
// when the heading has no letters or digits.
func Derive(heading string) string {
	s := strings.ToLower(strings.TrimSpace(fold(heading)))

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}

// IsValid reports whether s is already in derived form.
func IsValid(s string) bool {
	return s != "" && Derive(s) == s
}

// fold strips combining marks after compatibility decomposition, so
// fullwidth forms and ligatures reduce to their ASCII letters too.
func fold(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
