package textsim

import "github.com/kljensen/snowball"

// snowballLanguages maps language codes to the Snowball algorithms available
var snowballLanguages = map[string]string{
	"en": "english",
	"es": "spanish",
	"fr": "french",
	"ru": "russian",
	"sv": "swedish",
	"no": "norwegian",
	"hu": "hungarian",
}

// Stem reduces a lower-cased word to its stem using the Snowball algorithm
// for lang, falling back to English for languages without one
func Stem(word, lang string) string {
	algorithm, ok := snowballLanguages[lang]
	if !ok {
		algorithm = "english"
	}

	stemmed, err := snowball.Stem(word, algorithm, true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
