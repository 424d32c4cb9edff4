package render

import (
	"fmt"
	"strings"

	"github.com/chordworks/chartgen"
)

const (
	svgLineHeight = 28
	svgPadding    = 16
)

// SVG is the built-in renderer. It draws a plain text layout of each block
// variant; callers wanting raster output substitute their own Renderer.
type SVG struct{}

func NewSVG() *SVG {
	return &SVG{}
}

func (s *SVG) Ext() string { return "svg" }

func (s *SVG) Render(b chartgen.Block, opts Options) ([]byte, error) {
	if opts.Width <= 0 {
		opts.Width = DefaultOptions.Width
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions.Scale
	}
	if opts.AccentColor == "" {
		opts.AccentColor = DefaultOptions.AccentColor
	}

	var lines []string
	switch v := b.(type) {
	case *chartgen.TableBlock:
		if v.Caption != "" {
			lines = append(lines, v.Caption)
		}
		lines = append(lines, strings.Join(v.Headers, " | "))
		for _, row := range v.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
	case *chartgen.ChordProgressionBlock:
		lines = progressionLines(v.BlockTitle(), v.Key, strings.Join(v.Chords, " → "), v.Note)
	case *chartgen.DegreeProgressionBlock:
		lines = progressionLines(v.BlockTitle(), v.Key, strings.Join(v.Degrees, " - "), v.Note)
	case *chartgen.ScoreBlock:
		var body []string
		if len(v.Chords) > 0 {
			body = append(body, "chords: "+strings.Join(v.Chords, " "))
		}
		if len(v.Bass) > 0 {
			body = append(body, "bass: "+strings.Join(v.Bass, " "))
		}
		lines = progressionLines(v.BlockTitle(), v.Key, strings.Join(body, "\n"), v.Note)
	default:
		return nil, fmt.Errorf("unsupported block type %q", b.Type())
	}

	return svgDocument(lines, opts), nil
}

func progressionLines(title, key, body, note string) []string {
	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	if key != "" {
		lines = append(lines, "key: "+key)
	}
	for _, l := range strings.Split(body, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	if note != "" {
		lines = append(lines, note)
	}
	return lines
}

func svgDocument(lines []string, opts Options) []byte {
	width := int(float64(opts.Width) * opts.Scale)
	height := int(float64(len(lines)*svgLineHeight+2*svgPadding) * opts.Scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, opts.Width, len(lines)*svgLineHeight+2*svgPadding)
	sb.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	for i, line := range lines {
		fill := "#222222"
		if i == 0 {
			fill = opts.AccentColor
		}
		fmt.Fprintf(&sb, `<text x="%d" y="%d" font-family="monospace" font-size="16" fill="%s">%s</text>`+"\n",
			svgPadding, svgPadding+(i+1)*svgLineHeight-8, fill, escapeText(line))
	}

	sb.WriteString("</svg>\n")
	return []byte(sb.String())
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
