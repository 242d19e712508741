package content

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// StripHTML removes all markup from an HTML fragment and collapses the
// remaining whitespace. Feed summaries and issue bodies go through this
// before scoring so pattern matching sees clean text.
func StripHTML(fragment string) string {
	text := stripPolicy.Sanitize(fragment)
	text = html.UnescapeString(text)
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts text at max bytes and marks the cut. Bodies from release
// notes and discussions can run to tens of kilobytes, prompts don't need
// that much.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "\n[truncated]"
}
