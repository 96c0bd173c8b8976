// Package normalize provides helper functions for consistent string normalization
// of request input. Use these helpers instead of scattered strings.ToLower
// and strings.TrimSpace calls to ensure consistent behavior.
package normalize

import "strings"

// Heading trims a heading and collapses internal whitespace runs to a single space.
func Heading(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Description trims surrounding whitespace from rich-text input.
func Description(s string) string {
	return strings.TrimSpace(s)
}

// Status normalizes a status value by trimming whitespace and converting to lowercase.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug normalizes a slug path parameter by trimming whitespace and converting to lowercase.
func Slug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam normalizes a query parameter by trimming whitespace.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
