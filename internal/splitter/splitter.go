// Package splitter turns cleaned text into overlapping character windows.
package splitter

import (
	"strings"
	"unicode"
)

// Clean collapses every run of whitespace to a single space, strips control
// characters, and trims the result. Hashing and chunking both operate on the
// cleaned form so identical content always produces identical chunks.
func Clean(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	inSpace := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
			inSpace = true
		case unicode.IsControl(r):
			// dropped; NUL and friends never survive into stored content
		default:
			if inSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			inSpace = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Split slides a window of size characters over text, advancing by
// max(1, size-overlap), and returns every window in order. The final window
// may be shorter than size; together the windows cover the whole input.
// A non-positive size returns the text as a single chunk; empty cleaned text
// returns nil.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		return []string{text}
	}
	text = Clean(text)
	if text == "" {
		return nil
	}
	step := size - overlap
	if step < 1 {
		step = 1
	}
	n := len(text)
	var chunks []string
	for start := 0; start < n; start += step {
		end := start + size
		if end > n {
			end = n
		}
		chunks = append(chunks, text[start:end])
		if end == n {
			break
		}
	}
	return chunks
}

// EstimateTokens returns a cheap token-count proxy: the whitespace-delimited
// word count, never below 1. Used for observability only.
func EstimateTokens(text string) int {
	n := len(strings.Fields(text))
	if n < 1 {
		return 1
	}
	return n
}
