// ABOUTME: Title-to-slug conversion for projects, services, and pages
// ABOUTME: Lowercases, strips symbols, and collapses whitespace and hyphen runs

package slug

import (
	"strings"
	"unicode"
)

// Make derives a URL-safe slug from title. It lowercases the input, drops every
// character outside [a-z0-9], whitespace and '-', turns each whitespace run into
// a single hyphen, and collapses hyphen runs. The result may be empty when the
// title contains no usable characters; callers decide what that means.
//
// Make is idempotent: Make(Make(s)) == Make(s).
func Make(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	// lastHyphen tracks whether the previous emitted rune was a hyphen, so both
	// whitespace runs and hyphen runs collapse in a single pass.
	lastHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == '-' || unicode.IsSpace(r):
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return b.String()
}

// Valid reports whether s is already in slug form and has at least one letter or digit.
func Valid(s string) bool {
	return strings.Trim(s, "-") != "" && Make(s) == s
}
