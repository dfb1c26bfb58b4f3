// Package tokenize splits dialogue text into normalized word tokens.
// English text is segmented on whitespace/punctuation boundaries; Japanese
// text goes through kagome morphological analysis so unspaced text yields
// word-level units.
package tokenize

import (
	"fmt"

	"github.com/handsomecheung/subscout/pkg/subtitle"
)

// Options controls token filtering.
type Options struct {
	// MinTokenLength drops shorter English tokens unless they are standalone
	// pronouns ("I", "a"). Zero means keep everything.
	MinTokenLength int
}

// Tokenizer produces normalized word tokens from a chunk of text.
// Implementations must be deterministic and safe for concurrent use.
type Tokenizer interface {
	Tokens(text string) ([]string, error)
}

// New returns the tokenizer for the given language.
func New(lang subtitle.Language, opts Options) (Tokenizer, error) {
	switch lang {
	case subtitle.English:
		return newEnglish(opts), nil
	case subtitle.Japanese:
		return newJapanese()
	default:
		return nil, fmt.Errorf("no tokenizer for language %q", lang)
	}
}
