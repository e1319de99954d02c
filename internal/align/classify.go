package align

import (
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/dgallion1/actdiff/internal/unit"
)

// Severity thresholds over the 0-100 token-set score. Fixed policy: these
// are part of the comparison contract, not configuration.
const (
	minorEditFloor = 90
	modifiedFloor  = 65
)

// Classify grades the change between two unit bodies and returns the status
// with its similarity score. A missing side is passed as the empty string;
// Classify never fails.
func Classify(oldText, newText string) (unit.Status, float64) {
	if strings.TrimSpace(oldText) == strings.TrimSpace(newText) {
		return unit.StatusUnchanged, 100
	}
	score := fuzzy.TokenSetRatio(oldText, newText)
	return statusForScore(score), float64(score)
}

// statusForScore maps a token-set score to a severity for texts already
// known to differ.
func statusForScore(score int) unit.Status {
	switch {
	case score >= minorEditFloor:
		return unit.StatusMinorEdit
	case score >= modifiedFloor:
		return unit.StatusModified
	default:
		return unit.StatusSubstantial
	}
}
