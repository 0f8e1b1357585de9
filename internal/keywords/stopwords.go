package keywords

// stopwords per language; languages without a list use "default"
var stopwords = map[string]map[string]bool{
	"en": set("the", "is", "at", "which", "on", "a", "an", "and", "or", "but", "in", "with", "to", "for",
		"of", "was", "are", "be", "this", "that", "it", "as", "by", "from", "has", "had", "have", "not"),
	"ru": set("и", "в", "во", "не", "что", "он", "на", "я", "с", "со", "как", "а", "то", "все", "она", "так",
		"его", "но", "да", "ты", "к", "у", "же", "вы", "за", "бы", "по", "только", "ее", "мне", "было", "вот",
		"от", "меня", "ещё", "нет", "о", "из", "ему", "это", "для", "при", "над", "под"),
	"es": set("el", "la", "los", "las", "de", "del", "que", "y", "en", "un", "una", "por", "con", "para",
		"como", "pero", "sus", "más", "este", "esta", "fue", "son", "está"),
	"fr": set("le", "la", "les", "de", "des", "du", "et", "un", "une", "est", "que", "qui", "dans", "pour",
		"pas", "sur", "par", "avec", "ce", "cette", "son", "ses", "aux", "mais"),
	"de": set("der", "die", "das", "und", "ist", "ein", "eine", "einen", "zu", "den", "dem", "des", "mit",
		"von", "auf", "für", "nicht", "sich", "auch", "aus", "bei", "wie", "war"),
	"default": set("the", "is", "at", "and", "or"),
}

// Stopwords returns the stopword set for lang
func Stopwords(lang string) map[string]bool {
	if sw, ok := stopwords[lang]; ok {
		return sw
	}
	return stopwords["default"]
}

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
