package profile

import (
	"strings"
	"unicode"
)

const titleLen = 40

// Words splits text into lowercased words for the unique-word set.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
}

// Title returns the first line of text, shortened for lists.
func Title(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	runes := []rune(strings.TrimSpace(line))
	if len(runes) > titleLen {
		return string(runes[:titleLen]) + "…"
	}
	return string(runes)
}
