package textsim

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Jaccard returns the token-set similarity of two texts over lower-cased
// whitespace tokens. If either text has no tokens the result is 0.
func Jaccard(text1, text2 string) float64 {
	set1 := Set(WhitespaceTokens(text1))
	set2 := Set(WhitespaceTokens(text2))
	if len(set1) == 0 || len(set2) == 0 {
		return 0
	}

	intersection := 0
	for t := range set1 {
		if set2[t] {
			intersection++
		}
	}
	union := len(set1) + len(set2) - intersection

	return float64(intersection) / float64(union)
}

// EditSimilarity returns 1 - levenshtein(a, b) / max(len(a), len(b)),
// measured in runes over normalized text. Two empty texts are identical.
func EditSimilarity(text1, text2 string) float64 {
	a := Normalize(text1)
	b := Normalize(text2)

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	if longest == 0 {
		return 1
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

// Clamp01 bounds v to [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
