package chartgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const songDoc = "# Song\n" +
	"\n" +
	"```chords\n" +
	"title: Intro\n" +
	"key: C\n" +
	"---\n" +
	"Dm7 → G7 → Cmaj7\n" +
	"```\n" +
	"\n" +
	"## Sections\n" +
	"\n" +
	"| Name | Bars |\n" +
	"| ---- | ---- |\n" +
	"| A | 8 |\n" +
	"\n" +
	"Riff: Am -> F -> C -> G\n"

func TestCanExtractTaggedAndTableBlocks(t *testing.T) {
	extractor := NewExtractor(ExtractOptions{})

	d, err := extractor.Extract(strings.NewReader(songDoc), MetaData{Source: "song.chart.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 3)

	chord, ok := d.Blocks[0].(*ChordProgressionBlock)
	require.True(t, ok)
	assert.Equal(t, "Intro", chord.Title)
	assert.Equal(t, "C", chord.Key)
	assert.Equal(t, []string{"Dm7", "G7", "Cmaj7"}, chord.Chords)
	require.NotNil(t, chord.Source)
	assert.Equal(t, "song.chart.md", chord.Source.File)
	assert.Equal(t, 4, chord.Source.StartLine)
	assert.Equal(t, 7, chord.Source.EndLine)

	table, ok := d.Blocks[1].(*TableBlock)
	require.True(t, ok)
	assert.Equal(t, "Sections", table.Caption)
	assert.Equal(t, "Sections", table.Title)
	assert.Equal(t, []string{"Name", "Bars"}, table.Headers)
	assert.Equal(t, [][]string{{"A", "8"}}, table.Rows)
	require.NotNil(t, table.Source)
	assert.Equal(t, 12, table.Source.StartLine)
	assert.Equal(t, 14, table.Source.EndLine)

	detected, ok := d.Blocks[2].(*ChordProgressionBlock)
	require.True(t, ok)
	assert.Equal(t, "Sections", detected.Title)
	assert.Equal(t, []string{"Am", "F", "C", "G"}, detected.Chords)
	require.NotNil(t, detected.Source)
	assert.Equal(t, 16, detected.Source.StartLine)
	assert.Equal(t, 16, detected.Source.EndLine)
}

func TestIndicesAreMonotonicAcrossPasses(t *testing.T) {
	extractor := NewExtractor(ExtractOptions{})

	d, err := extractor.Extract(strings.NewReader(songDoc), MetaData{Source: "song.chart.md"})
	require.NoError(t, err)

	for i, b := range d.Blocks {
		assert.Equal(t, i+1, b.Occurrence())
	}

	// tagged/table blocks precede heuristic blocks
	assert.Equal(t, TypeChordProgression, d.Blocks[0].Type())
	assert.Equal(t, TypeTable, d.Blocks[1].Type())
}

func TestCanExtractScoreAndDegreeRegions(t *testing.T) {
	doc := "```score\n" +
		"key: Am\n" +
		"note: walking\n" +
		"---\n" +
		"chords: Am E7\n" +
		"bass: A E\n" +
		"```\n" +
		"\n" +
		"```degrees\n" +
		"3m - 4 - 5 - 6m\n" +
		"```\n"

	extractor := NewExtractor(ExtractOptions{})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{Source: "score.chart.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 2)

	score, ok := d.Blocks[0].(*ScoreBlock)
	require.True(t, ok)
	assert.Equal(t, "Am", score.Key)
	assert.Equal(t, "walking", score.Note)
	assert.Equal(t, []string{"Am", "E7"}, score.Chords)
	assert.Equal(t, []string{"A", "E"}, score.Bass)

	degree, ok := d.Blocks[1].(*DegreeProgressionBlock)
	require.True(t, ok)
	assert.Equal(t, []string{"3m", "4", "5", "6m"}, degree.Degrees)
}

func TestScoreLabelsAreIndependentlyOptional(t *testing.T) {
	doc := "```score\n" +
		"bass: A E F\n" +
		"```\n"

	extractor := NewExtractor(ExtractOptions{})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 1)

	score := d.Blocks[0].(*ScoreBlock)
	assert.Nil(t, score.Chords)
	assert.Equal(t, []string{"A", "E", "F"}, score.Bass)
}

func TestCanExtractTaggedTableRegions(t *testing.T) {
	doc := "```table\n" +
		"title: Form\n" +
		"---\n" +
		"| Part | Bars |\n" +
		"| ---- | ---- |\n" +
		"| Verse | 8 |\n" +
		"```\n" +
		"\n" +
		"```table\n" +
		"title: Empty\n" +
		"```\n"

	extractor := NewExtractor(ExtractOptions{})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{Source: "form.chart.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 2)

	form, ok := d.Blocks[0].(*TableBlock)
	require.True(t, ok)
	assert.Equal(t, 1, form.Occurrence())
	assert.Equal(t, "Form", form.Caption)
	assert.Equal(t, []string{"Part", "Bars"}, form.Headers)
	assert.Equal(t, [][]string{{"Verse", "8"}}, form.Rows)
	require.NotNil(t, form.Source)
	assert.Equal(t, "form.chart.md", form.Source.File)

	empty, ok := d.Blocks[1].(*TableBlock)
	require.True(t, ok)
	assert.Equal(t, 2, empty.Occurrence())
	assert.Equal(t, "Empty", empty.Caption)
	assert.Equal(t, []string{}, empty.Headers)
	assert.Equal(t, [][]string{}, empty.Rows)
}

func TestZeroRowTableIsValid(t *testing.T) {
	doc := "| A | B |\n" +
		"| - | - |\n"

	extractor := NewExtractor(ExtractOptions{})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 1)

	table := d.Blocks[0].(*TableBlock)
	assert.Equal(t, []string{"A", "B"}, table.Headers)
	assert.Equal(t, [][]string{}, table.Rows)
	assert.Empty(t, table.Caption)
}

func TestUnrecognizedFenceTagIsSkipped(t *testing.T) {
	doc := "```mermaid\n" +
		"graph TD;\n" +
		"```\n"

	extractor := NewExtractor(ExtractOptions{})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{})
	require.NoError(t, err)
	assert.Empty(t, d.Blocks)
}

func TestTypeFilterRestrictsTaggedPass(t *testing.T) {
	extractor := NewExtractor(ExtractOptions{Types: []BlockType{TypeTable}})

	d, err := extractor.Extract(strings.NewReader(songDoc), MetaData{Source: "song.chart.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, TypeTable, d.Blocks[0].Type())
	assert.Equal(t, 1, d.Blocks[0].Occurrence())
}

func TestFilteredIndicesStayContiguous(t *testing.T) {
	extractor := NewExtractor(ExtractOptions{Types: []BlockType{TypeChordProgression}})

	d, err := extractor.Extract(strings.NewReader(songDoc), MetaData{Source: "song.chart.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 2)
	assert.Equal(t, 1, d.Blocks[0].Occurrence())
	assert.Equal(t, 2, d.Blocks[1].Occurrence())
}

func TestEmptyDocumentYieldsNoBlocks(t *testing.T) {
	extractor := NewExtractor(ExtractOptions{})

	d, err := extractor.Extract(strings.NewReader(""), MetaData{})
	require.NoError(t, err)
	assert.Empty(t, d.Blocks)
}
