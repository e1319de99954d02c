// Package align matches the unit sequences of two act versions and grades
// each pair's change severity. Matching runs in three passes: exact composite
// key, fuzzy heading similarity for units the key pass left unmatched, and a
// final sweep that marks never-consumed new units as additions.
package align

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/dgallion1/actdiff/internal/unit"
)

// headingMatchFloor is the minimum token-set score between the old and new
// "subtopic + heading" strings for a fuzzy match to be accepted.
const headingMatchFloor = 80

// Align produces one MatchRecord per old unit (in old document order)
// followed by one Added record per unmatched new unit (in new document
// order). Deterministic for a given input order. Duplicate composite keys
// within one side keep the last unit at the first occurrence's position.
func Align(oldUnits, newUnits []unit.Unit) []unit.MatchRecord {
	newByKey, newOrder := indexByKey(newUnits)
	oldByKey, oldOrder := indexByKey(oldUnits)

	consumed := make(map[unit.Key]bool, len(newOrder))
	remaining := len(newOrder)

	// Pass 1: exact composite key.
	records := make([]unit.MatchRecord, 0, len(oldOrder))
	for _, k := range oldOrder {
		ou := oldByKey[k]
		nu, ok := newByKey[k]
		if !ok {
			records = append(records, unit.MatchRecord{
				Old:    unit.SideOf(ou),
				Status: unit.StatusRemoved,
				Method: unit.MethodUnmatchedOld,
			})
			continue
		}
		consumed[k] = true
		remaining--
		status, sim := Classify(ou.Text, nu.Text)
		records = append(records, unit.MatchRecord{
			Old:        unit.SideOf(ou),
			New:        unit.SideOf(nu),
			Status:     status,
			Similarity: sim,
			Method:     unit.MethodExactKey,
		})
	}

	// Pass 2: fuzzy heading fallback for provisionally removed units.
	for i := range records {
		if remaining == 0 {
			break
		}
		r := &records[i]
		if r.Status != unit.StatusRemoved {
			continue
		}
		k, ok := bestHeadingMatch(r.Old, newByKey, newOrder, consumed)
		if !ok {
			continue
		}
		nu := newByKey[k]
		consumed[k] = true
		remaining--

		status, sim := Classify(r.Old.Text, nu.Text)
		if status == unit.StatusRemoved {
			status = unit.StatusModified
		}
		r.New = unit.SideOf(nu)
		r.Status = status
		r.Similarity = sim
		r.Method = unit.MethodFuzzyHeading
	}

	// Pass 3: leftovers on the new side are additions.
	for _, k := range newOrder {
		if consumed[k] {
			continue
		}
		records = append(records, unit.MatchRecord{
			New:    unit.SideOf(newByKey[k]),
			Status: unit.StatusAdded,
			Method: unit.MethodNewOnly,
		})
	}

	return records
}

// bestHeadingMatch greedily picks the unconsumed new unit whose
// subtopic+heading scores highest against the old side's, preferring
// candidates that share the old section_ref when any exist. Ties break to
// the first-encountered maximum in new document order. Returns false when
// no candidate reaches the floor.
func bestHeadingMatch(old *unit.Side, newByKey map[unit.Key]unit.Unit, newOrder []unit.Key, consumed map[unit.Key]bool) (unit.Key, bool) {
	candidates := make([]unit.Key, 0, len(newOrder))
	for _, k := range newOrder {
		if !consumed[k] && k.SectionRef == old.SectionRef {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		for _, k := range newOrder {
			if !consumed[k] {
				candidates = append(candidates, k)
			}
		}
	}
	if len(candidates) == 0 {
		return unit.Key{}, false
	}

	query := old.Subtopic + " " + old.SectionHeading
	var best unit.Key
	bestScore := -1
	for _, k := range candidates {
		nu := newByKey[k]
		score := fuzzy.TokenSetRatio(query, strings.TrimSpace(nu.Subtopic+" "+nu.SectionHeading))
		if score > bestScore {
			best = k
			bestScore = score
		}
	}
	if bestScore < headingMatchFloor {
		return unit.Key{}, false
	}
	return best, true
}

// indexByKey maps composite key to unit, keeping the last unit for a
// duplicated key, and returns keys in first-occurrence order.
func indexByKey(units []unit.Unit) (map[unit.Key]unit.Unit, []unit.Key) {
	byKey := make(map[unit.Key]unit.Unit, len(units))
	order := make([]unit.Key, 0, len(units))
	for _, u := range units {
		k := u.Key()
		if _, seen := byKey[k]; !seen {
			order = append(order, k)
		}
		byKey[k] = u
	}
	return byKey, order
}
