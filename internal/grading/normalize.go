package grading

import (
	"strings"
	"unicode"
)

// normalize lowercases, collapses whitespace runs to a single space and
// trims the ends, so "Hello   World" and "  hello world " compare equal.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
