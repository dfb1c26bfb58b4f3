package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reTimestamp = regexp.MustCompile(`\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}\s*-->\s*\d{1,2}:\d{2}:\d{2}[,.]\d{1,3}`)
	reIndex     = regexp.MustCompile(`^\d+$`)
	reAngleTag  = regexp.MustCompile(`(?i)</?[a-z][^>]*>`)
)

// parseSRT strips cue indexes and timestamp lines, keeping only caption text.
func parseSRT(data []byte) (*Document, error) {
	doc := &Document{}
	sawTimestamp := false

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || reIndex.MatchString(line) {
			continue
		}
		if reTimestamp.MatchString(line) {
			sawTimestamp = true
			continue
		}
		text := strings.TrimSpace(reAngleTag.ReplaceAllString(line, ""))
		if text == "" {
			continue
		}
		doc.Lines = append(doc.Lines, Line{Text: text})
	}

	if !sawTimestamp {
		return nil, fmt.Errorf("%w: no timestamp blocks found", ErrMalformedSubtitle)
	}
	return doc, nil
}
