// Package normalize provides canonical forms for user-entered fields.
//
// Every write path should normalize before validating or persisting so
// that lookups (email login, duplicate checks) behave consistently.
package normalize

import "strings"

// Email lowercases and trims an email address. Emails are stored and
// queried in this form only.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Difficulty lowercases and trims a tour difficulty value.
func Difficulty(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
