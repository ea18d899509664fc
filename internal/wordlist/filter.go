// Package wordlist provides infinitive filtering helpers.
package wordlist

import "strings"

const spanishLetters = "abcdefghijklmnopqrstuvwxyzáéíóúüñ"

// IsRegularInfinitive reports whether word looks like a Spanish -ar, -er or -ir infinitive.
func IsRegularInfinitive(word string) bool {
	if len([]rune(word)) < 3 {
		return false
	}
	for _, r := range word {
		if !strings.ContainsRune(spanishLetters, r) {
			return false
		}
	}
	return strings.HasSuffix(word, "ar") || strings.HasSuffix(word, "er") || strings.HasSuffix(word, "ir")
}
