package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/chordworks/chartgen"
	"github.com/chordworks/chartgen/internal/render"
	"github.com/chordworks/chartgen/internal/store"
)

// ManifestName is the persisted manifest file name within the output store.
const ManifestName = "manifest.json"

// Options configure a Pipeline instance.
type Options struct {
	// Extract options forwarded to the engine
	Extract chartgen.ExtractOptions
	// Render options handed to the renderer per block
	Render render.Options
	// If true, no image buffers are produced; only the manifest is written
	ManifestOnly bool
}

func (o *Options) Pretty() string {
	return fmt.Sprintf("types=%v detect=%s manifest_only=%s",
		o.Extract.Types,
		boolToText(!o.Extract.NoDetect),
		boolToText(o.ManifestOnly))
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Source is one markdown document to run through the pipeline.
type Source struct {
	Content  io.Reader
	Metadata chartgen.MetaData
}

// Pipeline drives one document through extraction, rendering and storage,
// and persists the manifest describing the pass.
type Pipeline struct {
	extractor *chartgen.Extractor
	renderer  render.Renderer
	store     store.Store

	opts Options
}

// New creates a Pipeline with the given collaborators [Options]
func New(renderer render.Renderer, st store.Store, opts Options) *Pipeline {
	return &Pipeline{
		extractor: chartgen.NewExtractor(opts.Extract),
		renderer:  renderer,
		store:     st,
		opts:      opts,
	}
}

// Run extracts blocks from the source, renders and stores each one, and
// writes the manifest. Returns the manifest describing the pass.
func (p *Pipeline) Run(src Source) (*chartgen.Manifest, error) {
	slog.Debug("running pipeline", "source", src.Metadata.Source)

	doc, err := p.extractor.Extract(src.Content, src.Metadata)
	if err != nil {
		return nil, fmt.Errorf("extract error: %w", err)
	}

	outputs := make([]string, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		name := chartgen.SuggestFileName(b) + "." + p.renderer.Ext()
		outputs = append(outputs, name)

		if p.opts.ManifestOnly {
			continue
		}

		buf, err := p.renderer.Render(b, p.opts.Render)
		if err != nil {
			return nil, fmt.Errorf("render error for block %d: %w", b.Occurrence(), err)
		}
		if err := p.store.Write(name, buf); err != nil {
			return nil, fmt.Errorf("store error for block %d: %w", b.Occurrence(), err)
		}

		slog.Debug("rendered block", "index", b.Occurrence(), "type", b.Type(), "output", name)
	}

	manifest, err := chartgen.EncodeManifest(src.Metadata.Source, doc.Blocks, outputs, time.Now())
	if err != nil {
		return nil, fmt.Errorf("manifest encode error: %w", err)
	}

	if err := p.writeManifest(manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

// Regenerate re-renders every block described by a previously persisted
// manifest, without re-reading the original document. Output names recorded
// in the manifest are reused verbatim.
func (p *Pipeline) Regenerate(m *chartgen.Manifest) error {
	blocks, err := m.Blocks()
	if err != nil {
		return fmt.Errorf("manifest decode error: %w", err)
	}

	for i, b := range blocks {
		buf, err := p.renderer.Render(b, p.opts.Render)
		if err != nil {
			return fmt.Errorf("render error for block %d: %w", b.Occurrence(), err)
		}
		if err := p.store.Write(m.Items[i].Output, buf); err != nil {
			return fmt.Errorf("store error for block %d: %w", b.Occurrence(), err)
		}
	}

	slog.Debug("regenerated outputs from manifest", "input", m.Input, "blocks", len(blocks))
	return nil
}

func (p *Pipeline) writeManifest(m *chartgen.Manifest) error {
	data, err := m.MarshalIndent()
	if err != nil {
		return fmt.Errorf("manifest encode error: %w", err)
	}
	if err := p.store.Write(ManifestName, data); err != nil {
		return fmt.Errorf("manifest store error: %w", err)
	}
	return nil
}
