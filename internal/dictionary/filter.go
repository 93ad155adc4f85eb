package dictionary

import (
	"strings"
	"unicode"
)

// FilterFunc returns true when a headword should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific headword filter.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(lang) {
	case "en":
		return filterEnglish
	default:
		return KeepHeadword
	}
}

// KeepHeadword accepts any non-empty headword without control characters.
func KeepHeadword(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}

// English headwords may hold phrases and hyphenated or apostrophe forms.
func filterEnglish(word string) bool {
	if !KeepHeadword(word) {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case ch == ' ', ch == '-', ch == '\'', ch == '.':
		default:
			return false
		}
	}
	return true
}
