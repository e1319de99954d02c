package segment

import (
	"regexp"
	"strings"
)

var (
	patRefSection = regexp.MustCompile(`(?i)(section|sec\.)\s+(\d+[a-z-]*)`)
	patRefNumeral = regexp.MustCompile(`^\s*(\d+(\.\d+)*)`)
	patRefTopic   = regexp.MustCompile(`(?i)^\s*(chapter|part)\s+([ivx]+|\d+)\b`)
	nonAlnumRuns  = regexp.MustCompile(`[^a-z0-9]+`)
)

// maxSlugLen bounds slug-derived refs so pathological headings stay usable
// as keys.
const maxSlugLen = 40

// refFromHeading derives a stable section_ref from a heading line that never
// carried an explicit "Section N" marker: an embedded section number wins,
// then a leading dotted numeral, then a chapter/part marker, and finally a
// slug of the heading itself. Returns "" for an empty heading.
func refFromHeading(heading string) string {
	if heading == "" {
		return ""
	}
	if m := patRefSection.FindStringSubmatch(heading); m != nil {
		return "section_" + strings.ToLower(m[2])
	}
	if m := patRefNumeral.FindStringSubmatch(heading); m != nil {
		return "num_" + m[1]
	}
	if m := patRefTopic.FindStringSubmatch(heading); m != nil {
		return strings.ToLower(m[1]) + "_" + strings.ToLower(m[2])
	}
	slug := nonAlnumRuns.ReplaceAllString(strings.ToLower(heading), "_")
	slug = strings.Trim(slug, "_")
	if len(slug) > maxSlugLen {
		slug = slug[:maxSlugLen]
	}
	return "h_" + slug
}
