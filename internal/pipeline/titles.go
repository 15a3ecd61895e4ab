package pipeline

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ParseTitles splits a comma-separated list into trimmed, NFC-normalized
// titles, dropping empty entries.
func ParseTitles(text string) []string {
	titles := []string{}
	for _, part := range strings.Split(text, ",") {
		t := strings.TrimSpace(norm.NFC.String(part))
		if t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// SelectTitles picks the title source for a run: the list in multi mode,
// otherwise the single title field.
func SelectTitles(single, list string, multi bool) []string {
	if multi {
		return ParseTitles(list)
	}
	return ParseTitles(single)
}
