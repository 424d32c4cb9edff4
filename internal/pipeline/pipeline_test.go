package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chordworks/chartgen"
	"github.com/chordworks/chartgen/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	rendered []chartgen.Block
}

func (r *fakeRenderer) Render(b chartgen.Block, _ render.Options) ([]byte, error) {
	r.rendered = append(r.rendered, b)
	return []byte(fmt.Sprintf("<%s/>", b.Type())), nil
}

func (r *fakeRenderer) Ext() string { return "svg" }

type memStore struct {
	files map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{files: make(map[string][]byte)}
}

func (s *memStore) Write(name string, data []byte) error {
	s.files[name] = data
	return nil
}

const pipelineDoc = "```chords\n" +
	"title: Intro\n" +
	"---\n" +
	"Dm7 → G7 → Cmaj7\n" +
	"```\n"

func TestPipelineWritesOutputsAndManifest(t *testing.T) {
	renderer := &fakeRenderer{}
	st := newMemStore()
	p := New(renderer, st, Options{})

	m, err := p.Run(Source{
		Content:  strings.NewReader(pipelineDoc),
		Metadata: chartgen.MetaData{Source: "song.chart.md"},
	})
	require.NoError(t, err)

	require.Len(t, m.Items, 1)
	assert.Equal(t, "chord-progression-01-Intro.svg", m.Items[0].Output)
	assert.Equal(t, "song.chart.md", m.Input)

	assert.Equal(t, []byte("<chord-progression/>"), st.files["chord-progression-01-Intro.svg"])
	require.Contains(t, st.files, ManifestName)

	parsed, err := chartgen.ParseManifest(strings.NewReader(string(st.files[ManifestName])))
	require.NoError(t, err)
	require.Len(t, parsed.Items, 1)
	assert.Equal(t, chartgen.TypeChordProgression, parsed.Items[0].Type)
}

func TestManifestOnlySkipsRendering(t *testing.T) {
	renderer := &fakeRenderer{}
	st := newMemStore()
	p := New(renderer, st, Options{ManifestOnly: true})

	m, err := p.Run(Source{
		Content:  strings.NewReader(pipelineDoc),
		Metadata: chartgen.MetaData{Source: "song.chart.md"},
	})
	require.NoError(t, err)

	assert.Empty(t, renderer.rendered)
	require.Len(t, st.files, 1)
	require.Contains(t, st.files, ManifestName)

	// output names are still assigned for the manifest
	assert.Equal(t, "chord-progression-01-Intro.svg", m.Items[0].Output)
}

func TestRegenerateRendersFromManifestAlone(t *testing.T) {
	renderer := &fakeRenderer{}
	st := newMemStore()
	p := New(renderer, st, Options{})

	m := &chartgen.Manifest{
		Input: "song.chart.md",
		Items: []chartgen.ManifestItem{
			{
				Index:  1,
				Type:   chartgen.TypeDegreeProgression,
				Title:  "Cadence",
				Output: "degree-progression-01-Cadence.svg",
				Degrees: []string{
					"2m", "5", "1",
				},
			},
		},
	}

	require.NoError(t, p.Regenerate(m))

	require.Len(t, renderer.rendered, 1)
	assert.Equal(t, chartgen.TypeDegreeProgression, renderer.rendered[0].Type())
	assert.Contains(t, st.files, "degree-progression-01-Cadence.svg")
}

func TestRegenerateFailsOnUnrecognizedType(t *testing.T) {
	p := New(&fakeRenderer{}, newMemStore(), Options{})

	m := &chartgen.Manifest{
		Items: []chartgen.ManifestItem{
			{Index: 1, Type: "waveform", Output: "waveform-01.svg"},
		},
	}

	err := p.Regenerate(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "waveform")
}
