package model

import (
	"strings"
	"unicode"
)

var labelAcronyms = map[string]string{
	"id":  "ID",
	"url": "URL",
	"csv": "CSV",
	"zip": "ZIP",
}

// DefaultLabeler converts a field name into a sentence-case label, splitting
// on underscores, dashes, spaces and camelCase boundaries. Known acronyms
// keep their capitals: "dataFileUrl" becomes "Data file URL".
func DefaultLabeler(name string) string {
	words := splitWords(name)
	if len(words) == 0 {
		return ""
	}

	for i, word := range words {
		lower := strings.ToLower(word)
		if acronym, ok := labelAcronyms[lower]; ok {
			words[i] = acronym
			continue
		}
		if i == 0 {
			runes := []rune(lower)
			runes[0] = unicode.ToUpper(runes[0])
			words[i] = string(runes)
			continue
		}
		words[i] = lower
	}
	return strings.Join(words, " ")
}

func splitWords(name string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	runes := []rune(strings.TrimSpace(name))
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case i > 0 && isWordBoundary(runes[i-1], r):
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}

func isWordBoundary(prev, r rune) bool {
	return (unicode.IsLower(prev) && unicode.IsUpper(r)) ||
		(unicode.IsLetter(prev) && unicode.IsDigit(r)) ||
		(unicode.IsDigit(prev) && unicode.IsLetter(r))
}
