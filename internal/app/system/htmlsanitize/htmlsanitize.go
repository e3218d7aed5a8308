// Package htmlsanitize cleans client-supplied text before it is
// persisted. Tour descriptions may carry basic formatting; summaries
// and names are stripped to plain text.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize keeps user-generated-content markup (paragraphs, emphasis,
// links, lists) and removes everything executable.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugcPolicy.Sanitize(s)
}

// PlainText strips all markup, leaving only text content.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
