// Package diff renders word-level inline diffs for units the aligner graded
// as modified.
package diff

import (
	"strings"

	zdiff "znkr.io/diff"
)

// Inline renders the edit operations turning oldText into newText over
// whitespace-delimited words. Unchanged runs are emitted verbatim, deleted
// runs are wrapped in <del>, inserted runs in <ins>; a replacement is a
// deletion immediately followed by an insertion. Pieces are space-joined.
//
// The caller is responsible for escaping the input when the output is
// embedded in HTML: Inline itself only introduces the del/ins markers.
func Inline(oldText, newText string) string {
	oldWords := strings.Fields(oldText)
	newWords := strings.Fields(newText)
	edits := zdiff.Edits(oldWords, newWords)

	var out []string
	var run []string
	runOp := zdiff.Match

	flush := func() {
		if len(run) == 0 {
			return
		}
		switch runOp {
		case zdiff.Delete:
			out = append(out, "<del>"+strings.Join(run, " ")+"</del>")
		case zdiff.Insert:
			out = append(out, "<ins>"+strings.Join(run, " ")+"</ins>")
		default:
			out = append(out, run...)
		}
		run = run[:0]
	}

	for _, e := range edits {
		if e.Op != runOp {
			flush()
			runOp = e.Op
		}
		val := e.X
		if e.Op == zdiff.Insert {
			val = e.Y
		}
		run = append(run, val)
	}
	flush()

	return strings.Join(out, " ")
}
