package segment

import (
	"regexp"
	"strings"
)

// Subsection markers in their priority order: numeric "(1)", alphabetic
// "(a)", then roman "(i)". The alphabetic rule wins for single-letter roman
// markers such as "(i)" and "(x)".
var subsectionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`^\s*\(\s*(\d+)\s*\)\s+(.*)`),
	regexp.MustCompile(`^\s*\(\s*([a-z])\s*\)\s+(.*)`),
	regexp.MustCompile(`^\s*\(\s*([ivx]+)\s*\)\s+(.*)`),
}

type subsection struct {
	ref  string
	text string
}

// splitSubsections scans a section body for subsection markers at line
// starts. Text before the first marker becomes a subsection with an empty
// ref; subsections whose accumulated text is blank are dropped.
func splitSubsections(body string) []subsection {
	if body == "" {
		return nil
	}

	var out []subsection
	ref := ""
	var buf []string

	flush := func() {
		if len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if text != "" {
			out = append(out, subsection{ref: ref, text: text})
		}
		ref = ""
		buf = nil
	}

	for _, ln := range strings.Split(body, "\n") {
		var m []string
		for _, pat := range subsectionMarkers {
			if m = pat.FindStringSubmatch(ln); m != nil {
				break
			}
		}
		if m != nil {
			flush()
			ref = "(" + m[1] + ")"
			buf = append(buf, m[2])
		} else {
			buf = append(buf, ln)
		}
	}
	flush()

	return out
}
