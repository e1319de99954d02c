// Package report renders an aligned comparison as a spreadsheet, a
// delimited-text table, or a flowing narrative document. All three consume
// the same ordered record sequence and the same column set.
package report

import (
	"strconv"

	"github.com/dgallion1/actdiff/internal/unit"
)

// Columns is the export column set, in order. All three renderings use it.
var Columns = []string{
	"status", "similarity", "match_method",
	"old_topic", "old_subtopic", "old_section_ref", "old_subsection_ref", "old_section_heading", "old_text",
	"new_topic", "new_subtopic", "new_section_ref", "new_subsection_ref", "new_section_heading", "new_text",
}

// Row flattens one record into the column order. Missing sides render as
// empty cells.
func Row(r unit.MatchRecord) []string {
	side := func(s *unit.Side) [6]string {
		if s == nil {
			return [6]string{}
		}
		return [6]string{s.Topic, s.Subtopic, s.SectionRef, s.SubsectionRef, s.SectionHeading, s.Text}
	}
	o := side(r.Old)
	n := side(r.New)
	return []string{
		string(r.Status),
		strconv.FormatFloat(r.Similarity, 'f', -1, 64),
		string(r.Method),
		o[0], o[1], o[2], o[3], o[4], o[5],
		n[0], n[1], n[2], n[3], n[4], n[5],
	}
}
