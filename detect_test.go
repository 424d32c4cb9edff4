package chartgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordNameGrammar(t *testing.T) {
	matching := []string{
		"C", "Am", "Dm7", "G7", "Cmaj7", "Bb", "F#m7b5",
		"A7sus4", "C(add9)", "Em/G", "Dsus2", "Gadd9", "Caug", "Bdim7",
	}
	for _, s := range matching {
		assert.True(t, chordNameRegex.MatchString(s), "expected %q to match", s)
	}

	nonMatching := []string{
		"H7", "hello", "and", "do", "7", "Amx", "", "cm7",
	}
	for _, s := range nonMatching {
		assert.False(t, chordNameRegex.MatchString(s), "expected %q not to match", s)
	}
}

func TestSolfegeNoteGrammar(t *testing.T) {
	matching := []string{
		"do", "re", "mi", "fa", "sol", "so", "la", "si", "ti",
		"Do", "do#", "la♭", "REb",
	}
	for _, s := range matching {
		assert.True(t, solfegeNoteRegex.MatchString(s), "expected %q to match", s)
	}

	nonMatching := []string{
		"C", "Am", "doremi", "fas", "", "sol7",
	}
	for _, s := range nonMatching {
		assert.False(t, solfegeNoteRegex.MatchString(s), "expected %q not to match", s)
	}
}

func TestArrowPieces(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected []string
	}{
		{
			name:     "test plain progression line",
			line:     "Dm7 -> G7 -> Cmaj7",
			expected: []string{"Dm7", "G7", "Cmaj7"},
		},
		{
			name:     "test label prefix is stripped",
			line:     "Riff: Am -> F -> C",
			expected: []string{"Am", "F", "C"},
		},
		{
			name:     "test list marker label prefix",
			line:     "- Chorus: F -> C -> G",
			expected: []string{"F", "C", "G"},
		},
		{
			name:     "test full width colon label",
			line:     "サビ： Am -> F -> C",
			expected: []string{"Am", "F", "C"},
		},
		{
			name:     "test unicode arrows",
			line:     "do → re → mi",
			expected: []string{"do", "re", "mi"},
		},
		{
			name:     "test too short candidate is discarded",
			line:     "A->B",
			expected: nil,
		},
		{
			name:     "test single piece is not a progression",
			line:     "just a sentence without arrows",
			expected: nil,
		},
		{
			name:     "test empty line",
			line:     "",
			expected: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, arrowPieces(tc.line))
		})
	}
}

func TestQualifiesThreshold(t *testing.T) {
	tests := []struct {
		name     string
		pieces   []string
		expected bool
	}{
		{
			name:     "test 4 of 5 matching is accepted",
			pieces:   []string{"Dm7", "G7", "and", "Cmaj7", "Am"},
			expected: true,
		},
		{
			name:     "test 3 of 5 matching is rejected",
			pieces:   []string{"Dm7", "hello", "world", "G7", "Am"},
			expected: false,
		},
		{
			name:     "test 2 of 2 matching is accepted",
			pieces:   []string{"Dm7", "G7"},
			expected: true,
		},
		{
			name:     "test single match never qualifies",
			pieces:   []string{"Dm7", "go"},
			expected: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, qualifies(tc.pieces, chordNameRegex))
		})
	}
}

func TestCanDetectUntaggedProgressions(t *testing.T) {
	doc := `# Practice Notes

## Turnaround

Riff: Dm7 -> G7 -> Cmaj7 -> Am

Some ordinary prose that mentions C major once.

**Warm up**

do -> re -> mi -> fa
`

	extractor := NewExtractor(ExtractOptions{})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{Source: "notes.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 2)

	chord, ok := d.Blocks[0].(*ChordProgressionBlock)
	require.True(t, ok)
	assert.Equal(t, 1, chord.Occurrence())
	assert.Equal(t, "Turnaround", chord.BlockTitle())
	assert.Equal(t, []string{"Dm7", "G7", "Cmaj7", "Am"}, chord.Chords)
	require.NotNil(t, chord.Location())
	assert.Equal(t, "notes.md", chord.Location().File)

	degree, ok := d.Blocks[1].(*DegreeProgressionBlock)
	require.True(t, ok)
	assert.Equal(t, 2, degree.Occurrence())
	assert.Equal(t, "Warm up", degree.BlockTitle())
	assert.Equal(t, []string{"do", "re", "mi", "fa"}, degree.Degrees)
}

func TestDetectionCanBeDisabled(t *testing.T) {
	doc := "Riff: Dm7 -> G7 -> Cmaj7\n"

	extractor := NewExtractor(ExtractOptions{NoDetect: true})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{Source: "notes.md"})
	require.NoError(t, err)
	assert.Empty(t, d.Blocks)
}

func TestDetectionHonorsTypeFilter(t *testing.T) {
	doc := "Dm7 -> G7 -> Cmaj7\n\ndo -> re -> mi\n"

	extractor := NewExtractor(ExtractOptions{Types: []BlockType{TypeDegreeProgression}})
	d, err := extractor.Extract(strings.NewReader(doc), MetaData{Source: "notes.md"})
	require.NoError(t, err)
	require.Len(t, d.Blocks, 1)
	assert.Equal(t, TypeDegreeProgression, d.Blocks[0].Type())
}
