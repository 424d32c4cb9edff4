package chartgen

import (
	"regexp"
	"strings"
)

var (
	chordSeparatorRegex  = regexp.MustCompile(`\s*(?:→|->|–|—|\|)\s*`)
	degreeSeparatorRegex = regexp.MustCompile(`\s*(?:-|–|—)\s*`)

	bassLineRegex      = regexp.MustCompile(`(?i)^bass:\s*(.+)$`)
	chordsLineRegex    = regexp.MustCompile(`(?i)^chords:\s*(.+)$`)
	arrowSplitterRegex = regexp.MustCompile(`\s*(?:→|->)\s*`)
)

// SplitChords tokenizes a chord-progression body. Pieces are separated by
// `→`, `->`, `–`, `—` or `|`; surrounding whitespace is absorbed and empty
// pieces are dropped. Order is preserved.
func SplitChords(body string) []string {
	return splitSequence(body, chordSeparatorRegex)
}

// SplitDegrees tokenizes a degree-progression body. Same rules as
// SplitChords but the separator set is limited to `-`, `–` and `—`.
func SplitDegrees(body string) []string {
	return splitSequence(body, degreeSeparatorRegex)
}

func splitSequence(body string, sep *regexp.Regexp) []string {
	out := []string{}
	for _, piece := range sep.Split(body, -1) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}
		out = append(out, piece)
	}
	return out
}

// ScoreContent holds the labelled sequences of a score region. Either
// sequence is nil if its label never appeared in the body.
type ScoreContent struct {
	Chords []string
	Bass   []string
}

// SplitScoreContent scans a score body for `bass:` and `chords:` labelled
// lines (case-insensitive). Each label's remainder is whitespace-split into
// its sequence. Labels are optional and independent; if a label is repeated
// the last matching line wins.
func SplitScoreContent(body string) ScoreContent {
	var sc ScoreContent

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if m := bassLineRegex.FindStringSubmatch(line); m != nil {
			sc.Bass = strings.Fields(m[1])
			continue
		}
		if m := chordsLineRegex.FindStringSubmatch(line); m != nil {
			sc.Chords = strings.Fields(m[1])
		}
	}

	return sc
}
