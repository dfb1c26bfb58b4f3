package tokenize

import (
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"

	"github.com/handsomecheung/subscout/pkg/subtitle"
)

// lexicalPOS are the IPA part-of-speech classes that carry vocabulary worth
// studying. Particles, auxiliaries and symbols are dropped.
var lexicalPOS = map[string]bool{
	"名詞":  true, // noun
	"動詞":  true, // verb
	"形容詞": true, // adjective
	"副詞":  true, // adverb
}

type japanese struct {
	t *tokenizer.Tokenizer
}

func newJapanese() (*japanese, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &japanese{t: t}, nil
}

// Tokens runs morphological segmentation and keeps lexical morphemes,
// normalized to their dictionary (base) form.
//
// Kagome IPA features:
// 0: part of speech, 1-3: sub-POS, 4-5: conjugation, 6: base form, 7: reading
func (j *japanese) Tokens(text string) ([]string, error) {
	var out []string
	for _, token := range j.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		features := token.Features()
		if len(features) == 0 || !lexicalPOS[features[0]] {
			continue
		}
		// Skip numeric nouns (sub-POS 数).
		if len(features) > 1 && features[1] == "数" {
			continue
		}

		word := token.Surface
		if len(features) > 6 && features[6] != "*" && features[6] != "" {
			word = features[6]
		}
		if !subtitle.ContainsJapanese(word) {
			continue
		}
		out = append(out, word)
	}
	return out, nil
}
