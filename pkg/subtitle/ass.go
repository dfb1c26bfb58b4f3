package subtitle

import (
	"fmt"
	"regexp"
	"strings"
)

// reOverride matches ASS override blocks like {\an8\pos(10,10)}.
var reOverride = regexp.MustCompile(`\{[^}]*\}`)

// parseASS reads the [Events] section of an Advanced SubStation file.
// Styles are collected from the dialogue lines that reference them, in order
// of first appearance, so the list only offers filters that select something.
func parseASS(data []byte) (*Document, error) {
	doc := &Document{}
	seenStyles := map[string]bool{}

	section := ""
	var fields []string
	sawEvents := false

	for _, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.Trim(line, "[]"))
			if section == "events" {
				sawEvents = true
			}
			continue
		}
		if section != "events" {
			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(strings.TrimSpace(key)) {
		case "format":
			fields = splitFields(value, -1)
		case "dialogue":
			if fields == nil {
				return nil, fmt.Errorf("%w: dialogue before format line", ErrMalformedSubtitle)
			}
			cols := splitFields(value, len(fields))
			if len(cols) != len(fields) {
				continue
			}
			var style, text string
			for i, name := range fields {
				switch strings.ToLower(name) {
				case "style":
					style = cols[i]
				case "text":
					text = cols[i]
				}
			}
			text = cleanEventText(text)
			if style != "" && !seenStyles[style] {
				seenStyles[style] = true
				doc.Styles = append(doc.Styles, style)
			}
			if text == "" {
				continue
			}
			doc.Lines = append(doc.Lines, Line{Style: style, Text: text})
		}
	}

	if !sawEvents {
		return nil, fmt.Errorf("%w: no [Events] section found", ErrMalformedSubtitle)
	}
	return doc, nil
}

// splitFields splits a comma-separated event line. n > 0 limits the split so
// the trailing Text field may itself contain commas.
func splitFields(s string, n int) []string {
	var parts []string
	if n > 0 {
		parts = strings.SplitN(s, ",", n)
	} else {
		parts = strings.Split(s, ",")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// cleanEventText strips override blocks and formatting codes, leaving
// natural-language text only.
func cleanEventText(text string) string {
	text = reOverride.ReplaceAllString(text, "")
	replacer := strings.NewReplacer(`\N`, " ", `\n`, " ", `\h`, " ")
	return strings.TrimSpace(replacer.Replace(text))
}
