package chartgen

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
)

// Heuristic detection constants. The 80% threshold tolerates one stray
// token (a connector word, say) inside an otherwise clean progression
// without triggering on ordinary sentences that happen to contain a single
// chord-like token. These values are load-bearing for existing outputs,
// not tuning knobs.
const (
	detectMinLength  = 5
	detectMinMatches = 2
)

var (
	labelPrefixRegex = regexp.MustCompile(`^[-*]?\s*[^:：]+[：:]\s*(.+)$`)

	// Chord names: root letter, optional accidental, optional
	// quality/extension tokens, optional parenthetical, optional slash-bass
	chordNameRegex = regexp.MustCompile(`^[A-G][#♯b♭]?(?:maj|min|m|M|dim|aug|sus[24]?|add[0-9]+|[0-9]+|[#♯b♭][0-9]+)*(?:\([^()]*\))?(?:/[A-G][#♯b♭]?)?$`)

	// Solfège syllables with an optional accidental
	solfegeNoteRegex = regexp.MustCompile(`(?i)^(?:do|re|ré|mi|fa|sol?|la|si|ti)[#♯b♭]?$`)
)

// detectProgressions is the second extraction pass: untagged prose is
// scanned for lines that look like progressions. Detection is best-effort;
// a line that fails the tests is simply not emitted. The occurrence counter
// continues from the tagged/table pass.
func (e *Extractor) detectProgressions(root ast.Node, content []byte, source string, next int) []Block {
	var blocks []Block

	wantChords := e.wants(TypeChordProgression)
	wantDegrees := e.wants(TypeDegreeProgression)
	if !wantChords && !wantDegrees {
		return nil
	}

	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.(type) {
		case *ast.Paragraph, *ast.TextBlock:
		default:
			return ast.WalkContinue, nil
		}

		loc := nodeSpan(n, content, source)
		title := inferTitle(n, content)

		for _, line := range rawLines(n, content) {
			pieces := arrowPieces(line)
			if pieces == nil {
				continue
			}

			if wantChords && qualifies(pieces, chordNameRegex) {
				slog.Debug("detected untagged chord progression", "line", line)
				blocks = append(blocks, &ChordProgressionBlock{
					BlockMeta: BlockMeta{Index: next, Title: title, Source: loc},
					Chords:    pieces,
				})
				next++
			}

			if wantDegrees && qualifies(pieces, solfegeNoteRegex) {
				slog.Debug("detected untagged note progression", "line", line)
				blocks = append(blocks, &DegreeProgressionBlock{
					BlockMeta: BlockMeta{Index: next, Title: title, Source: loc},
					Degrees:   pieces,
				})
				next++
			}
		}

		return ast.WalkSkipChildren, nil
	})

	return blocks
}

// arrowPieces reduces one prose line to its arrow-separated pieces, or nil
// if the line cannot be a progression candidate: a leading "label:" prefix
// is stripped first, candidates shorter than 5 characters are discarded,
// and fewer than 2 pieces means there is nothing to join.
func arrowPieces(line string) []string {
	candidate := strings.TrimSpace(line)
	if m := labelPrefixRegex.FindStringSubmatch(candidate); m != nil {
		candidate = strings.TrimSpace(m[1])
	}

	if utf8.RuneCountInString(candidate) < detectMinLength {
		return nil
	}

	pieces := []string{}
	for _, p := range arrowSplitterRegex.Split(candidate, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pieces = append(pieces, p)
	}
	if len(pieces) < detectMinMatches {
		return nil
	}
	return pieces
}

// qualifies applies the confidence rule: at least 2 pieces must match the
// grammar, and matching pieces must be at least 80% of all pieces.
func qualifies(pieces []string, grammar *regexp.Regexp) bool {
	matches := 0
	for _, p := range pieces {
		if grammar.MatchString(p) {
			matches++
		}
	}
	return matches >= detectMinMatches && matches*10 >= len(pieces)*8
}

// inferTitle scans up to 3 preceding nodes of the enclosing paragraph,
// nearest first: the first heading wins; failing that, the first bold run
// inside a preceding paragraph. When the paragraph sits inside a list the
// scan climbs out and continues with the enclosing node's siblings.
func inferTitle(n ast.Node, content []byte) string {
	preceding := precedingNodes(n, 3)

	for _, p := range preceding {
		if h, ok := p.(*ast.Heading); ok {
			return extractText(h, content)
		}
	}

	for _, p := range preceding {
		if para, ok := p.(*ast.Paragraph); ok {
			if t := firstBoldRun(para, content); t != "" {
				return t
			}
		}
	}

	return ""
}

func precedingNodes(n ast.Node, max int) []ast.Node {
	var out []ast.Node

	cur := n
	for len(out) < max && cur != nil {
		prev := cur.PreviousSibling()
		if prev == nil {
			cur = cur.Parent()
			continue
		}
		out = append(out, prev)
		cur = prev
	}

	return out
}

func firstBoldRun(n ast.Node, content []byte) string {
	var title string

	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if em, ok := c.(*ast.Emphasis); ok && em.Level == 2 {
			title = extractText(em, content)
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})

	return title
}
