// Package slugify derives URL-safe slugs from display names.
package slugify

import (
	"strings"
	"unicode"
)

// Slug lowercases s and collapses every run of non-alphanumeric
// characters into a single hyphen. The store derives a tour's slug from
// its name with this function before every save, so the slug always
// tracks the current name.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
