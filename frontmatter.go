package chartgen

import (
	"regexp"
	"strings"
)

var frontMatterRegex = regexp.MustCompile(`(?i)^(title|key|note):\s*(.*)$`)

// FrontMatter is the optional metadata header of a tagged region, plus the
// body text that follows it.
type FrontMatter struct {
	Title string
	Key   string
	Note  string
	// Body is the region text with the header removed, trimmed
	Body string
}

// SplitFrontMatter parses an embedded metadata header off the top of a
// tagged region.
//
// Recognized lines are `title:`, `key:` and `note:` (case-insensitive on
// the key). Blank lines between them are skipped. A line equal to `---`
// ends the header and is consumed. Any other line ends the header and
// belongs to the body.
//
// The first occurrence of a key wins; a repeated key is consumed as part of
// the header but its value is ignored. A malformed header line is not an
// error, it simply ends the header early and becomes body text.
func SplitFrontMatter(raw string) FrontMatter {
	var fm FrontMatter
	var seenTitle, seenKey, seenNote bool

	lines := strings.Split(raw, "\n")
	bodyStart := 0

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if trimmed == "---" {
			bodyStart = i + 1
			break
		}

		matches := frontMatterRegex.FindStringSubmatch(trimmed)
		if matches == nil {
			bodyStart = i
			break
		}

		switch strings.ToLower(matches[1]) {
		case "title":
			if !seenTitle {
				fm.Title = strings.TrimSpace(matches[2])
				seenTitle = true
			}
		case "key":
			if !seenKey {
				fm.Key = strings.TrimSpace(matches[2])
				seenKey = true
			}
		case "note":
			if !seenNote {
				fm.Note = strings.TrimSpace(matches[2])
				seenNote = true
			}
		}

		// Header may run to the end of the region
		bodyStart = i + 1
	}

	fm.Body = strings.TrimSpace(strings.Join(lines[bodyStart:], "\n"))
	return fm
}
