// Package utils provides shared helpers for text, math, and logging.
package utils

// Truncate returns s cut to at most maxLen bytes, with "..." appended
// when anything was cut. A non-positive maxLen returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Snippet returns the first maxLen bytes of s without an ellipsis,
// suitable for citation excerpts.
func Snippet(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
