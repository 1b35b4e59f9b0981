package extract

import (
	"strings"
	"unicode/utf8"
)

// extractPlain handles .txt and .md files. Bytes pass through untouched
// except that invalid UTF-8 sequences are replaced, so everything the
// store holds is valid UTF-8.
func extractPlain(content []byte) (string, error) {
	if utf8.Valid(content) {
		return string(content), nil
	}
	return strings.ToValidUTF8(string(content), "�"), nil
}
