// Package textsim provides lexical similarity primitives: tokenizing,
// token-set (Jaccard) similarity, edit-distance similarity and stemming.
package textsim

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases text and brings it to NFC so that composed and
// decomposed forms of the same letter compare equal
func Normalize(text string) string {
	return norm.NFC.String(strings.ToLower(text))
}

// WhitespaceTokens splits normalized text on whitespace
func WhitespaceTokens(text string) []string {
	return strings.Fields(Normalize(text))
}

// Tokenize splits normalized text into words, treating every rune that is
// not a letter, digit or underscore as a separator
func Tokenize(text string) []string {
	return strings.FieldsFunc(Normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.Is(unicode.Mn, r) && r != '_'
	})
}

// Unique returns tokens with duplicates removed, keeping first-appearance order
func Unique(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// Set builds a membership set from tokens
func Set(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}
