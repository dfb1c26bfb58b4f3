package tokenize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// standalonePronouns are single-letter words kept regardless of the minimum
// token length.
var standalonePronouns = map[string]bool{"i": true, "a": true}

// foldDiacritics decomposes to NFD, removes combining marks and recomposes,
// so "café" and "cafe" count as the same word.
var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

type english struct {
	minLen int
}

func newEnglish(opts Options) *english {
	return &english{minLen: opts.MinTokenLength}
}

// Tokens segments on non-letter boundaries, lowercases, folds diacritics and
// drops numeric, punctuation-only and too-short tokens.
func (e *english) Tokens(text string) ([]string, error) {
	folded, _, err := transform.String(foldDiacritics, text)
	if err != nil {
		// Fall back to the raw text; segmentation still works.
		folded = text
	}

	var out []string
	for _, raw := range strings.FieldsFunc(folded, isBoundary) {
		token := strings.ToLower(strings.Trim(raw, "'"))
		if token == "" || !hasLetter(token) {
			continue
		}
		if len(token) < e.minLen && !standalonePronouns[token] {
			continue
		}
		out = append(out, token)
	}
	return out, nil
}

func isBoundary(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
