package textutil

import (
	"unicode/utf8"
)

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters.
// Invalid sequences are dropped rather than replaced so downstream keyword
// matching sees clean text.
func SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	return string(result)
}

// Truncate safely truncates text to the specified maximum byte size and
// ensures the result remains valid UTF-8
func Truncate(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	return truncated
}
