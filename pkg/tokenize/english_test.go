package tokenize

import (
	"reflect"
	"testing"

	"github.com/handsomecheung/subscout/pkg/subtitle"
)

func englishTokens(t *testing.T, text string, minLen int) []string {
	t.Helper()
	tk, err := New(subtitle.English, Options{MinTokenLength: minLen})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	tokens, err := tk.Tokens(text)
	if err != nil {
		t.Fatalf("Tokens: %v", err)
	}
	return tokens
}

func TestEnglishSegmentsAndLowercases(t *testing.T) {
	got := englishTokens(t, "Hello, there! HELLO again.", 2)
	want := []string{"hello", "there", "hello", "again"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEnglishDropsNumericAndPunctuation(t *testing.T) {
	got := englishTokens(t, "In 1984 -- exactly 42% of ... things", 2)
	for _, tok := range got {
		if tok == "1984" || tok == "42" {
			t.Errorf("numeric token survived: %q", tok)
		}
	}
	want := []string{"in", "exactly", "of", "things"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEnglishMinLengthKeepsPronouns(t *testing.T) {
	got := englishTokens(t, "I am a bold one, X marks it", 2)
	has := map[string]bool{}
	for _, tok := range got {
		has[tok] = true
	}
	if !has["i"] || !has["a"] {
		t.Errorf("standalone pronouns should survive the length filter: %v", got)
	}
	if has["x"] {
		t.Errorf("single letter %q should be dropped: %v", "x", got)
	}
}

func TestEnglishFoldsDiacritics(t *testing.T) {
	got := englishTokens(t, "A café naïve résumé", 2)
	want := []string{"a", "cafe", "naive", "resume"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEnglishApostrophes(t *testing.T) {
	got := englishTokens(t, "don't 'quote' me", 2)
	want := []string{"don't", "quote", "me"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestEnglishDeterminism(t *testing.T) {
	text := "The same input must always yield the same tokens."
	first := englishTokens(t, text, 2)
	for i := 0; i < 10; i++ {
		if got := englishTokens(t, text, 2); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differed: %v vs %v", i, got, first)
		}
	}
}
