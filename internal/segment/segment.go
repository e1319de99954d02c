// Package segment turns the plain text of a legal act into an ordered
// sequence of addressable units using typographic heuristics: chapter/part
// markers establish topics, fully-capitalized lines establish subtopics,
// "Section N" lines open sections, and parenthesized markers split section
// bodies into subsections. No markup is assumed or required.
package segment

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dgallion1/actdiff/internal/unit"
)

var (
	patTopic      = regexp.MustCompile(`(?i)^(chapter|part|schedule)\s+([ivx]+|\d+)\b`)
	patSection    = regexp.MustCompile(`(?i)^(section|sec\.)\s+(\d+[a-z-]*)\b`)
	patShouty     = regexp.MustCompile(`^[A-Z][A-Z &.,-]{5,}$`)
	patNumHeading = regexp.MustCompile(`^\d+(\.\d+)*\s+[\w()]`)
)

// state is the parse accumulator threaded through the line scan. It replaces
// what would otherwise be shared mutable parser state, so concurrent callers
// each get their own.
type state struct {
	topic          string
	subtopic       string
	sectionRef     string
	sectionHeading string
	body           []string
	units          []unit.Unit
}

// lineRule pairs a predicate with its effect on the parse state. Rules are
// evaluated in order and the first match wins; a line matching no rule is
// body text.
type lineRule struct {
	name  string
	match func(st *state, line string) bool
	apply func(st *state, raw, line string)
}

var lineRules = []lineRule{
	{
		name: "topic",
		match: func(_ *state, line string) bool {
			return patTopic.MatchString(line)
		},
		apply: func(st *state, _, line string) {
			st.flush()
			st.topic = line
			st.subtopic = ""
		},
	},
	{
		name: "subtopic",
		match: func(_ *state, line string) bool {
			return patShouty.MatchString(line) && !patSection.MatchString(line)
		},
		apply: func(st *state, _, line string) {
			st.flush()
			st.subtopic = line
		},
	},
	{
		name: "section",
		match: func(_ *state, line string) bool {
			return patSection.MatchString(line)
		},
		apply: func(st *state, _, line string) {
			st.flush()
			m := patSection.FindStringSubmatch(line)
			st.sectionRef = "section_" + strings.ToLower(m[2])
			st.sectionHeading = line
		},
	},
	{
		// A numeric heading ("3.2 Some Title") outside any open section is a
		// candidate subtopic, but its text still belongs to the pending body;
		// only an explicit section marker opens a section.
		name: "numeric-heading",
		match: func(st *state, line string) bool {
			return st.sectionHeading == "" && patNumHeading.MatchString(line)
		},
		apply: func(st *state, raw, line string) {
			st.flush()
			if st.subtopic == "" {
				st.subtopic = line
			}
			st.body = append(st.body, raw)
		},
	},
}

// Segment parses document text into hierarchical units. It never fails:
// text with no recognizable structure degrades to a single unit holding the
// whole body, and empty text yields no units.
func Segment(text string) []unit.Unit {
	st := &state{}

	for _, raw := range strings.Split(Normalize(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			st.body = append(st.body, raw)
			continue
		}

		matched := false
		for _, r := range lineRules {
			if r.match(st, line) {
				r.apply(st, raw, line)
				matched = true
				break
			}
		}
		if !matched {
			st.body = append(st.body, raw)
		}
	}
	st.flush()

	backfillRefs(st.units)
	return st.units
}

// flush emits the pending section as one unit per subsection (or a single
// unit when the body has no subsection markers) and resets the section
// state. Flushing with no heading and no body is a no-op.
func (st *state) flush() {
	body := strings.TrimSpace(strings.Join(st.body, "\n"))
	if st.sectionHeading == "" && body == "" {
		st.resetSection()
		return
	}

	ref := st.sectionRef
	if ref == "" {
		ref = refFromHeading(st.sectionHeading)
	}

	subs := splitSubsections(body)
	if len(subs) == 0 {
		st.units = append(st.units, unit.Unit{
			Topic:          st.topic,
			Subtopic:       st.subtopic,
			SectionRef:     ref,
			SectionHeading: st.sectionHeading,
			Text:           body,
		})
	} else {
		for _, ss := range subs {
			st.units = append(st.units, unit.Unit{
				Topic:          st.topic,
				Subtopic:       st.subtopic,
				SectionRef:     ref,
				SectionHeading: st.sectionHeading,
				SubsectionRef:  ss.ref,
				Text:           ss.text,
			})
		}
	}
	st.resetSection()
}

func (st *state) resetSection() {
	st.sectionRef = ""
	st.sectionHeading = ""
	st.body = nil
}

// backfillRefs guarantees every unit leaves the segmenter with a non-empty
// section_ref. Units that never saw any heading get a positional id so that
// distinct headingless blocks do not collapse onto one key.
func backfillRefs(units []unit.Unit) {
	for i := range units {
		if units[i].SectionRef == "" {
			units[i].SectionRef = refFromHeading(units[i].SectionHeading)
		}
		if units[i].SectionRef == "" {
			units[i].SectionRef = fmt.Sprintf("auto_%d", i+1)
		}
	}
}
