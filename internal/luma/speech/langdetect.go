package speech

import (
	"strings"
	"unicode"
)

// Romanized Tamil words common in everyday assistant replies. A single hit
// is enough to switch synthesis to Tamil; everyday English text matches
// none of them.
var tamilTokens = map[string]struct{}{
	"vanakkam":   {},
	"nandri":     {},
	"eppadi":     {},
	"irukku":     {},
	"irukkeenga": {},
	"enna":       {},
	"seri":       {},
	"illa":       {},
	"venum":      {},
	"vendam":     {},
	"sollu":      {},
	"sollunga":   {},
	"pannu":      {},
	"pannunga":   {},
	"romba":      {},
}

// DetectLanguage guesses the language of text for synthesis purposes. It
// returns "ta" when the text contains Tamil script or a romanized Tamil
// token, and "en" otherwise.
func DetectLanguage(text string) string {
	for _, r := range text {
		if unicode.Is(unicode.Tamil, r) {
			return "ta"
		}
	}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"")
		if _, ok := tamilTokens[word]; ok {
			return "ta"
		}
	}
	return "en"
}
