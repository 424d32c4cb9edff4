package chartgen

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// maxSuggestedNameLen bounds the suggested base name, extension excluded.
const maxSuggestedNameLen = 50

var (
	forbiddenNameChars = strings.NewReplacer(
		"/", "", "\\", "", "?", "", "%", "", "*", "",
		":", "", "|", "", `"`, "", "<", "", ">", "",
	)
	whitespaceRunRegex = regexp.MustCompile(`\s+`)
)

// SuggestFileName produces a deterministic output base name for a block:
// type prefix, zero-padded 2-digit occurrence index, then the sanitized
// title when one exists. The caller appends the extension.
func SuggestFileName(b Block) string {
	name := fmt.Sprintf("%s-%02d", b.Type(), b.Occurrence())
	if title := SanitizeTitle(b.BlockTitle()); title != "" {
		name += "-" + title
	}

	if runes := []rune(name); len(runes) > maxSuggestedNameLen {
		name = string(runes[:maxSuggestedNameLen])
	}

	return strings.TrimRight(name, "-")
}

// SanitizeTitle makes a block title safe for use in a file name: the
// characters `/ \ ? % * : | " < >` are stripped and whitespace runs
// collapse to a single hyphen.
func SanitizeTitle(title string) string {
	s := forbiddenNameChars.Replace(title)
	s = whitespaceRunRegex.ReplaceAllString(strings.TrimSpace(s), "-")
	return s
}

// MustAbs resolves path to an absolute path, panicking on failure.
func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
