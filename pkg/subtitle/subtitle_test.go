package subtitle

import (
	"errors"
	"strings"
	"testing"
)

const sampleSRT = `1
00:00:01,000 --> 00:00:03,000
Hello there.

2
00:00:04,000 --> 00:00:06,500
<i>General Kenobi!</i>

3
00:00:07,000 --> 00:00:09,000
You are a bold one.
`

const sampleASS = `[Script Info]
Title: sample
ScriptType: v4.00+

[V4+ Styles]
Format: Name, Fontname, Fontsize
Style: Default,Arial,20
Style: Signs,Arial,16

[Events]
Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text
Dialogue: 0,0:00:01.00,0:00:03.00,Default,,0,0,0,,{\an8}Hello, friend
Dialogue: 0,0:00:04.00,0:00:06.00,Signs,,0,0,0,,STATION SIGN
Dialogue: 0,0:00:07.00,0:00:09.00,Default,,0,0,0,,Two lines\Nof text, with commas
`

func TestParseSRT(t *testing.T) {
	doc, err := Parse("movie.srt", []byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(doc.Lines), doc.Lines)
	}
	if doc.Lines[1].Text != "General Kenobi!" {
		t.Errorf("expected tag-stripped text, got %q", doc.Lines[1].Text)
	}
	if len(doc.Styles) != 0 {
		t.Errorf("srt should have no styles, got %v", doc.Styles)
	}
	if doc.Language != English {
		t.Errorf("expected en, got %s", doc.Language)
	}
}

func TestParseSRTStripsIndexAndTimestamps(t *testing.T) {
	doc, err := Parse("movie.srt", []byte(sampleSRT))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, l := range doc.Lines {
		if strings.Contains(l.Text, "-->") {
			t.Errorf("timestamp leaked into dialogue: %q", l.Text)
		}
	}
}

func TestParseASSStylesAndText(t *testing.T) {
	doc, err := Parse("show.ass", []byte(sampleASS))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Styles) != 2 || doc.Styles[0] != "Default" || doc.Styles[1] != "Signs" {
		t.Fatalf("expected styles [Default Signs] in first-appearance order, got %v", doc.Styles)
	}
	if doc.Lines[0].Text != "Hello, friend" {
		t.Errorf("override tag not stripped: %q", doc.Lines[0].Text)
	}
	if doc.Lines[2].Text != "Two lines of text, with commas" {
		t.Errorf("line breaks/commas mishandled: %q", doc.Lines[2].Text)
	}
	if doc.Lines[1].Style != "Signs" {
		t.Errorf("expected Signs style, got %q", doc.Lines[1].Style)
	}
}

func TestParseASSDuplicateStyles(t *testing.T) {
	ass := `[Events]
Format: Layer, Start, End, Style, Text
Dialogue: 0,0:00:01.00,0:00:02.00,B,one
Dialogue: 0,0:00:02.00,0:00:03.00,A,two
Dialogue: 0,0:00:03.00,0:00:04.00,B,three
`
	doc, err := Parse("x.ass", []byte(ass))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(doc.Styles) != 2 || doc.Styles[0] != "B" || doc.Styles[1] != "A" {
		t.Fatalf("expected deduplicated styles [B A], got %v", doc.Styles)
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	_, err := Parse("movie.vtt", []byte("WEBVTT"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse("movie.srt", []byte("just some text\nwith no cues")); !errors.Is(err, ErrMalformedSubtitle) {
		t.Errorf("srt without timestamps: expected ErrMalformedSubtitle, got %v", err)
	}
	if _, err := Parse("show.ass", []byte("[Script Info]\nTitle: empty\n")); !errors.Is(err, ErrMalformedSubtitle) {
		t.Errorf("ass without events: expected ErrMalformedSubtitle, got %v", err)
	}
}

func TestParseBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleSRT)...)
	if _, err := Parse("movie.srt", data); err != nil {
		t.Fatalf("BOM-prefixed file should parse: %v", err)
	}
}

func TestDetectLanguage(t *testing.T) {
	if got := DetectLanguage("The quick brown fox."); got != English {
		t.Errorf("expected en, got %s", got)
	}
	if got := DetectLanguage("吾輩は猫である。名前はまだ無い。"); got != Japanese {
		t.Errorf("expected jp, got %s", got)
	}
	// Mostly ASCII with a stray kanji stays English.
	if got := DetectLanguage("This is an English sentence mentioning 猫 once in passing today."); got != English {
		t.Errorf("expected en for mostly-ASCII content, got %s", got)
	}
	if got := DetectLanguage(""); got != English {
		t.Errorf("empty content defaults to en, got %s", got)
	}
}

func TestLanguageDetectionFromASSContent(t *testing.T) {
	ass := `[Events]
Format: Layer, Start, End, Style, Text
Dialogue: 0,0:00:01.00,0:00:02.00,Default,こんにちは、世界
Dialogue: 0,0:00:02.00,0:00:03.00,Default,また会ったね
`
	doc, err := Parse("anime.ass", []byte(ass))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if doc.Language != Japanese {
		t.Errorf("expected jp, got %s", doc.Language)
	}
}
