// Package subtitle parses .srt and .ass subtitle files into plain dialogue
// text and detects the language of their content.
package subtitle

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Language identifies the detected language of a subtitle file.
type Language string

const (
	English  Language = "en"
	Japanese Language = "jp"
)

// Valid reports whether l is a language this pipeline handles.
func (l Language) Valid() bool {
	return l == English || l == Japanese
}

var (
	// ErrUnsupportedFormat is returned for any extension other than .srt/.ass.
	ErrUnsupportedFormat = errors.New("unsupported subtitle format")
	// ErrMalformedSubtitle is returned when the file structure cannot be parsed.
	ErrMalformedSubtitle = errors.New("malformed subtitle")
)

// Line is a single dialogue line. Style is empty for .srt sources.
type Line struct {
	Style string `json:"style"`
	Text  string `json:"text"`
}

// Document is the parsed form of a subtitle file.
type Document struct {
	Language Language
	// Styles lists the distinct style names referenced by dialogue lines,
	// in order of first appearance. Empty for .srt.
	Styles []string
	Lines  []Line
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parse dispatches on the filename extension and returns the parsed document.
func Parse(filename string, data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var doc *Document
	var err error
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".srt":
		doc, err = parseSRT(data)
	case ".ass":
		doc, err = parseASS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, l := range doc.Lines {
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	doc.Language = DetectLanguage(b.String())
	return doc, nil
}

// DetectLanguage applies the script heuristic: content where more than 10%
// of the runes fall in the Japanese/CJK block (U+2E80..U+9FFF, which covers
// kana and the unified ideographs) is Japanese, everything else English.
func DetectLanguage(content string) Language {
	if content == "" {
		return English
	}
	var total, japanese int
	for _, r := range content {
		total++
		if isJapaneseRune(r) {
			japanese++
		}
	}
	if total > 0 && float64(japanese)/float64(total) > 0.1 {
		return Japanese
	}
	return English
}

func isJapaneseRune(r rune) bool {
	return r >= 0x2E80 && r <= 0x9FFF
}

// ContainsJapanese reports whether s has at least one rune in the Japanese
// script range. Used by the tokenizer to reject ASCII-only morphemes.
func ContainsJapanese(s string) bool {
	for _, r := range s {
		if isJapaneseRune(r) {
			return true
		}
	}
	return false
}
