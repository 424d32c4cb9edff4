package render

import (
	"strings"
	"testing"

	"github.com/chordworks/chartgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSVGRendersChordProgression(t *testing.T) {
	b := &chartgen.ChordProgressionBlock{
		BlockMeta: chartgen.BlockMeta{Index: 1, Title: "Intro"},
		Key:       "C",
		Chords:    []string{"Dm7", "G7", "Cmaj7"},
		Note:      "slow",
	}

	out, err := NewSVG().Render(b, Options{})
	require.NoError(t, err)

	svg := string(out)
	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.Contains(t, svg, ">Intro</text>")
	assert.Contains(t, svg, ">key: C</text>")
	assert.Contains(t, svg, "Dm7 → G7 → Cmaj7")
	assert.Contains(t, svg, ">slow</text>")
	// first line carries the accent color
	assert.Contains(t, svg, DefaultOptions.AccentColor)
}

func TestSVGRendersTableWithCaption(t *testing.T) {
	b := &chartgen.TableBlock{
		BlockMeta: chartgen.BlockMeta{Index: 1, Title: "Sections"},
		Caption:   "Sections",
		Headers:   []string{"Name", "Bars"},
		Rows:      [][]string{{"A", "8"}},
	}

	out, err := NewSVG().Render(b, Options{})
	require.NoError(t, err)

	svg := string(out)
	assert.Contains(t, svg, ">Sections</text>")
	assert.Contains(t, svg, "Name | Bars")
	assert.Contains(t, svg, "A | 8")
}

func TestSVGEscapesMarkup(t *testing.T) {
	b := &chartgen.ChordProgressionBlock{
		BlockMeta: chartgen.BlockMeta{Index: 1, Title: "<Intro> & Outro"},
		Chords:    []string{"C"},
	}

	out, err := NewSVG().Render(b, Options{})
	require.NoError(t, err)

	svg := string(out)
	assert.Contains(t, svg, "&lt;Intro&gt; &amp; Outro")
	assert.NotContains(t, svg, "<Intro>")
}

func TestSVGScalesDimensions(t *testing.T) {
	b := &chartgen.ScoreBlock{
		BlockMeta: chartgen.BlockMeta{Index: 1},
		Chords:    []string{"Am", "E7"},
	}

	out, err := NewSVG().Render(b, Options{Width: 100, Scale: 2.0})
	require.NoError(t, err)

	assert.Contains(t, string(out), `width="200"`)
}
