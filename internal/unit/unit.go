package unit

import "strings"

// Unit is one addressable leaf of a parsed act: the text belonging to a single
// (topic, subtopic, section, subsection) position. Units are immutable once
// produced by the segmenter.
type Unit struct {
	Topic          string `json:"topic"`
	Subtopic       string `json:"subtopic"`
	SectionRef     string `json:"section_ref"`
	SectionHeading string `json:"section_heading"`
	SubsectionRef  string `json:"subsection_ref"`
	Text           string `json:"text"`
}

// Key is the composite key identifying a unit's position in the hierarchy.
type Key struct {
	Topic         string
	Subtopic      string
	SectionRef    string
	SubsectionRef string
}

// Key returns the unit's composite key.
func (u Unit) Key() Key {
	return Key{
		Topic:         u.Topic,
		Subtopic:      u.Subtopic,
		SectionRef:    u.SectionRef,
		SubsectionRef: u.SubsectionRef,
	}
}

// Status classifies the severity of change between an old and new unit.
type Status string

const (
	StatusAdded       Status = "Added"
	StatusRemoved     Status = "Removed"
	StatusUnchanged   Status = "Unchanged"
	StatusMinorEdit   Status = "Minor edit"
	StatusModified    Status = "Modified"
	StatusSubstantial Status = "Substantially modified"
)

// MatchMethod records how a pair of units was put in correspondence.
type MatchMethod string

const (
	MethodExactKey     MatchMethod = "exact_key"
	MethodFuzzyHeading MatchMethod = "fuzzy_heading"
	MethodUnmatchedOld MatchMethod = "unmatched_old"
	MethodNewOnly      MatchMethod = "new_only"
)

// Side is one document's projection of a match. A nil side means the unit has
// no counterpart in that document.
type Side struct {
	Topic          string `json:"topic"`
	Subtopic       string `json:"subtopic"`
	SectionRef     string `json:"section_ref"`
	SectionHeading string `json:"section_heading"`
	SubsectionRef  string `json:"subsection_ref"`
	Text           string `json:"text"`
}

// SideOf projects a unit onto a match side.
func SideOf(u Unit) *Side {
	return &Side{
		Topic:          u.Topic,
		Subtopic:       u.Subtopic,
		SectionRef:     u.SectionRef,
		SectionHeading: u.SectionHeading,
		SubsectionRef:  u.SubsectionRef,
		Text:           u.Text,
	}
}

// MatchRecord is the result of aligning zero or one old unit with zero or one
// new unit. Immutable once emitted by the aligner.
type MatchRecord struct {
	Old *Side `json:"old"`
	New *Side `json:"new"`

	Status     Status      `json:"status"`
	Similarity float64     `json:"similarity"`
	Method     MatchMethod `json:"match_method"`
}

// OldText returns the old-side body, or "" when the record has no old side.
func (r MatchRecord) OldText() string {
	if r.Old == nil {
		return ""
	}
	return r.Old.Text
}

// NewText returns the new-side body, or "" when the record has no new side.
func (r MatchRecord) NewText() string {
	if r.New == nil {
		return ""
	}
	return r.New.Text
}

// Heading returns the best display heading for a record, preferring the new
// side, matching how the report renders untitled units.
func (r MatchRecord) Heading() string {
	if r.New != nil && r.New.SectionHeading != "" {
		return r.New.SectionHeading
	}
	if r.Old != nil && r.Old.SectionHeading != "" {
		return r.Old.SectionHeading
	}
	return "(Untitled)"
}

// Path renders the hierarchy position "topic > subtopic > ref > subref",
// preferring new-side fields and skipping empty segments.
func (r MatchRecord) Path() string {
	pick := func(get func(*Side) string) string {
		if r.New != nil {
			if v := get(r.New); v != "" {
				return v
			}
		}
		if r.Old != nil {
			return get(r.Old)
		}
		return ""
	}
	parts := make([]string, 0, 4)
	for _, v := range []string{
		pick(func(s *Side) string { return s.Topic }),
		pick(func(s *Side) string { return s.Subtopic }),
		pick(func(s *Side) string { return s.SectionRef }),
		pick(func(s *Side) string { return s.SubsectionRef }),
	} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " > ")
}

// Summary holds the executive-summary counts over a record sequence.
type Summary struct {
	Total     int `json:"total"`
	Added     int `json:"added"`
	Removed   int `json:"removed"`
	Modified  int `json:"modified"`
	Unchanged int `json:"unchanged"`
}

// Summarize counts records by status family. The modified family covers
// Minor edit, Modified and Substantially modified.
func Summarize(records []MatchRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		switch r.Status {
		case StatusAdded:
			s.Added++
		case StatusRemoved:
			s.Removed++
		case StatusUnchanged:
			s.Unchanged++
		case StatusMinorEdit, StatusModified, StatusSubstantial:
			s.Modified++
		}
	}
	return s
}
