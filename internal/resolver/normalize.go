package resolver

import (
	"strings"
	"unicode"
)

// Normalize trims the input, collapses internal whitespace runs to single
// spaces, and strips control characters. Never fails; empty in, empty out.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// HasCyrillic reports whether the text contains Cyrillic script, used as a
// language hint when the user's language setting is "auto".
func HasCyrillic(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Cyrillic, r) {
			return true
		}
	}
	return false
}
