package lsp

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/chordworks/chartgen"
	"github.com/sourcegraph/go-lsp"
)

// DocumentService runs the extraction engine over open editor documents and
// keeps the latest result per URI for symbol queries.
type DocumentService struct {
	extractor *chartgen.Extractor

	mu   sync.RWMutex
	docs map[string]*chartgen.Document
}

func NewDocumentService(opts chartgen.ExtractOptions) *DocumentService {
	return &DocumentService{
		extractor: chartgen.NewExtractor(opts),
		docs:      make(map[string]*chartgen.Document),
	}
}

// Update re-extracts a document and returns the diagnostics to publish.
func (s *DocumentService) Update(uri lsp.DocumentURI, text string) ([]lsp.Diagnostic, error) {
	fsPath, err := s.URIToPath(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid document URI: %w", err)
	}

	doc, err := s.extractor.Extract(strings.NewReader(text), chartgen.MetaData{Source: fsPath})
	if err != nil {
		return nil, fmt.Errorf("extract error: %w", err)
	}

	s.mu.Lock()
	s.docs[string(uri)] = doc
	s.mu.Unlock()

	return diagnose(doc), nil
}

// Forget drops the cached result for a closed document.
func (s *DocumentService) Forget(uri lsp.DocumentURI) {
	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()
}

// Symbols returns one symbol per extracted block of an open document.
func (s *DocumentService) Symbols(uri lsp.DocumentURI) []lsp.SymbolInformation {
	s.mu.RLock()
	doc := s.docs[string(uri)]
	s.mu.RUnlock()

	if doc == nil {
		return nil
	}

	symbols := make([]lsp.SymbolInformation, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		name := b.BlockTitle()
		if name == "" {
			name = fmt.Sprintf("%s %d", b.Type(), b.Occurrence())
		}
		symbols = append(symbols, lsp.SymbolInformation{
			Name: name,
			Kind: lsp.SKConstant,
			Location: lsp.Location{
				URI:   uri,
				Range: locationRange(b.Location()),
			},
		})
	}

	return symbols
}

// diagnose flags blocks that parsed but carry no renderable content.
func diagnose(doc *chartgen.Document) []lsp.Diagnostic {
	diagnostics := []lsp.Diagnostic{}

	for _, b := range doc.Blocks {
		var msg string
		switch v := b.(type) {
		case *chartgen.ChordProgressionBlock:
			if len(v.Chords) == 0 {
				msg = "chord progression region has no chords"
			}
		case *chartgen.DegreeProgressionBlock:
			if len(v.Degrees) == 0 {
				msg = "degree progression region has no degrees"
			}
		case *chartgen.ScoreBlock:
			if v.Chords == nil && v.Bass == nil {
				msg = "score region has no chords: or bass: line"
			}
		case *chartgen.TableBlock:
			if len(v.Headers) == 0 && len(v.Rows) == 0 {
				msg = "table region is empty"
			}
		}

		if msg == "" {
			continue
		}

		diagnostics = append(diagnostics, lsp.Diagnostic{
			Range:    locationRange(b.Location()),
			Severity: lsp.Warning,
			Source:   "chartgen",
			Message:  msg,
		})
	}

	return diagnostics
}

func locationRange(loc *chartgen.SourceLocation) lsp.Range {
	if loc == nil {
		return lsp.Range{}
	}
	// LSP lines are 0-based, SourceLocation lines are 1-based
	return lsp.Range{
		Start: lsp.Position{Line: loc.StartLine - 1},
		End:   lsp.Position{Line: loc.EndLine - 1},
	}
}

// URIToPath converts an LSP URI to a filesystem path
func (s *DocumentService) URIToPath(uri lsp.DocumentURI) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// PathToURI converts a filesystem path to an LSP URI
func (s *DocumentService) PathToURI(path string) string {
	return "file://" + path
}
