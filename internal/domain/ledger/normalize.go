package ledger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Normalize title-cases free text word by word. Words that are already fully
// upper case are kept as acronyms, words starting with a lower case letter get
// only their first letter raised, and runs of whitespace collapse to a single
// space.
func Normalize(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	for i, word := range words {
		words[i] = normalizeWord(word)
	}
	return strings.Join(words, " ")
}

func normalizeWord(word string) string {
	if strings.ToUpper(word) == word {
		return word
	}

	first, size := utf8.DecodeRuneInString(word)
	if !unicode.IsLower(first) {
		return word
	}
	return string(unicode.ToUpper(first)) + word[size:]
}
