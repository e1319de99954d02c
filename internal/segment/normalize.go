package segment

import (
	"regexp"
	"strings"
)

var (
	hspaceRuns  = regexp.MustCompile(`[ \t]+`)
	newlineRuns = regexp.MustCompile(`\n{3,}`)
)

// Normalize canonicalizes whitespace so that segmentation is reproducible
// regardless of how the text was extracted: non-breaking spaces become plain
// spaces, runs of horizontal whitespace collapse to one space, carriage
// returns become newlines, runs of 3+ newlines collapse to a blank line, and
// the whole document is trimmed. Normalize is idempotent.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = hspaceRuns.ReplaceAllString(text, " ")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = newlineRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
