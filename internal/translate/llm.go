package translate

import (
	"fmt"
	"strings"
)

const llmSystemPrompt = "You are a translation engine. Translate the user's text faithfully. " +
	"Reply with the translation only: no quotes, notes, or transliteration."

func buildTranslationPrompt(text, sourceLang, targetLang string) string {
	return fmt.Sprintf("Translate from %s to %s:\n\n%s", sourceLang, targetLang, text)
}

// cleanLLMOutput strips wrapping quotes that chat models like to add
func cleanLLMOutput(s string) string {
	s = strings.TrimSpace(s)
	for _, q := range []string{`"`, "«", "“"} {
		closing := q
		switch q {
		case "«":
			closing = "»"
		case "“":
			closing = "”"
		}
		if strings.HasPrefix(s, q) && strings.HasSuffix(s, closing) && len(s) > len(q)+len(closing) {
			s = strings.TrimSpace(s[len(q) : len(s)-len(closing)])
		}
	}
	return s
}
