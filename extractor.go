package chartgen

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// ExtractOptions control one extraction pass.
type ExtractOptions struct {
	// Types restricts extraction to the given block types.
	// Empty means all four types.
	Types []BlockType
	// NoDetect disables heuristic detection of progressions in untagged
	// prose. Detection is enabled by default.
	NoDetect bool
}

// Extractor turns markdown documents into typed content blocks.
//
// One Extractor may be shared: it holds no per-call state, so concurrent
// Extract calls are safe.
type Extractor struct {
	gm   goldmark.Markdown
	opts ExtractOptions
}

func NewExtractor(opts ExtractOptions) *Extractor {
	return &Extractor{
		gm:   goldmark.New(goldmark.WithExtensions(extension.Table)),
		opts: opts,
	}
}

func (e *Extractor) wants(t BlockType) bool {
	if len(e.opts.Types) == 0 {
		return true
	}
	for _, want := range e.opts.Types {
		if want == t {
			return true
		}
	}
	return false
}

// Extract runs one extraction pass over a markdown document.
//
// Tagged regions and generic tables are emitted first in document order,
// then heuristically detected progressions, with occurrence indices
// continuing across the two passes (1..N). A document with no recognizable
// blocks yields an empty block list, not an error.
func (e *Extractor) Extract(r io.Reader, md MetaData) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	root := e.gm.Parser().Parse(text.NewReader(content))

	doc := &Document{Metadata: md}

	blocks, next, err := e.extractTagged(root, content, md.Source, 1)
	if err != nil {
		return nil, err
	}
	doc.Blocks = blocks

	if !e.opts.NoDetect {
		detected := e.detectProgressions(root, content, md.Source, next)
		doc.Blocks = append(doc.Blocks, detected...)
	}

	return doc, nil
}

// extractTagged is the first pass: explicitly tagged regions and generic
// tables, in document order. Returns the blocks and the next free
// occurrence index.
func (e *Extractor) extractTagged(root ast.Node, content []byte, source string, next int) ([]Block, int, error) {
	var blocks []Block

	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			b, err := e.classifyTagged(node, content, source)
			if err != nil {
				return ast.WalkStop, err
			}
			if b != nil {
				b.meta().Index = next
				next++
				blocks = append(blocks, b)
			}
			return ast.WalkSkipChildren, nil

		case *east.Table:
			if !e.wants(TypeTable) {
				return ast.WalkSkipChildren, nil
			}
			b := e.classifyTable(node, content, source)
			b.Index = next
			next++
			blocks = append(blocks, b)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, next, err
	}

	return blocks, next, nil
}

// classifyTagged maps a fenced region with a recognized info tag to its
// typed block. Unrecognized tags are skipped, not errors.
func (e *Extractor) classifyTagged(cb *ast.FencedCodeBlock, content []byte, source string) (Block, error) {
	var blockType BlockType
	switch strings.ToLower(string(cb.Language(content))) {
	case "chords", "chord-progression":
		blockType = TypeChordProgression
	case "degrees", "degree-progression":
		blockType = TypeDegreeProgression
	case "score":
		blockType = TypeScore
	case "table":
		blockType = TypeTable
	default:
		return nil, nil
	}

	if !e.wants(blockType) {
		return nil, nil
	}

	fm := SplitFrontMatter(fencedText(cb, content))
	loc := nodeSpan(cb, content, source)
	meta := BlockMeta{Title: fm.Title, Source: loc}

	switch blockType {
	case TypeChordProgression:
		return &ChordProgressionBlock{
			BlockMeta: meta,
			Key:       fm.Key,
			Chords:    SplitChords(fm.Body),
			Note:      fm.Note,
		}, nil

	case TypeDegreeProgression:
		return &DegreeProgressionBlock{
			BlockMeta: meta,
			Key:       fm.Key,
			Degrees:   SplitDegrees(fm.Body),
			Note:      fm.Note,
		}, nil

	case TypeScore:
		sc := SplitScoreContent(fm.Body)
		return &ScoreBlock{
			BlockMeta: meta,
			Key:       fm.Key,
			Chords:    sc.Chords,
			Bass:      sc.Bass,
			Note:      fm.Note,
		}, nil

	case TypeTable:
		return e.classifyTaggedTable(fm, loc)
	}

	return nil, nil
}

// classifyTaggedTable handles a table region inside an explicit tag: the
// body is re-extracted restricted to tables, and the front-matter title
// wins over any caption the inner table inferred.
func (e *Extractor) classifyTaggedTable(fm FrontMatter, loc *SourceLocation) (Block, error) {
	inner := NewExtractor(ExtractOptions{
		Types:    []BlockType{TypeTable},
		NoDetect: true,
	})

	innerDoc, err := inner.Extract(strings.NewReader(fm.Body), MetaData{})
	if err != nil {
		return nil, fmt.Errorf("extracting tagged table body: %w", err)
	}

	for _, b := range innerDoc.Blocks {
		tb, ok := b.(*TableBlock)
		if !ok {
			continue
		}
		if fm.Title != "" {
			tb.Title = fm.Title
			tb.Caption = fm.Title
		}
		tb.Source = loc
		return tb, nil
	}

	slog.Debug("tagged table region held no table, emitting empty block", "title", fm.Title)
	return &TableBlock{
		BlockMeta: BlockMeta{Title: fm.Title, Source: loc},
		Caption:   fm.Title,
		Headers:   []string{},
		Rows:      [][]string{},
	}, nil
}

// classifyTable maps a generic GFM table node to a table block. The first
// row supplies the headers; a heading immediately before the table supplies
// the caption. A table with no rows is valid and yields empty headers/rows.
func (e *Extractor) classifyTable(t *east.Table, content []byte, source string) *TableBlock {
	headers := []string{}
	rows := [][]string{}

	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		cells := []string{}
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, extractText(cell, content))
		}

		if _, ok := row.(*east.TableHeader); ok {
			headers = cells
			continue
		}
		rows = append(rows, cells)
	}

	var caption string
	if h, ok := t.PreviousSibling().(*ast.Heading); ok {
		caption = extractText(h, content)
	}

	return &TableBlock{
		BlockMeta: BlockMeta{Title: caption, Source: nodeSpan(t, content, source)},
		Caption:   caption,
		Headers:   headers,
		Rows:      rows,
	}
}

// fencedText concatenates the interior lines of a fenced region.
func fencedText(cb *ast.FencedCodeBlock, content []byte) string {
	var buf bytes.Buffer
	l := cb.Lines().Len()
	for i := 0; i < l; i++ {
		line := cb.Lines().At(i)
		buf.Write(line.Value(content))
	}
	return buf.String()
}

// rawLines returns the raw source lines of a block node, one string per
// line, without trailing newlines.
func rawLines(n ast.Node, content []byte) []string {
	var out []string
	l := n.Lines().Len()
	for i := 0; i < l; i++ {
		seg := n.Lines().At(i)
		out = append(out, strings.TrimRight(string(seg.Value(content)), "\n"))
	}
	return out
}

// extractText recursively flattens a node into its plain-text content.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer

	var walk func(ast.Node)
	walk = func(n ast.Node) {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			switch t := c.(type) {
			case *ast.Text:
				buf.Write(t.Segment.Value(src))
				if t.HardLineBreak() || t.SoftLineBreak() {
					buf.WriteByte('\n')
				}
			case *ast.String:
				buf.Write(t.Value)
			default:
				walk(c)
			}
		}
	}
	walk(n)

	return strings.TrimSpace(buf.String())
}

// lineNumber converts a byte offset to a 1-based line number.
func lineNumber(content []byte, byteOffset int) int {
	if byteOffset > len(content) {
		byteOffset = len(content)
	}
	return bytes.Count(content[:byteOffset], []byte("\n")) + 1
}

// nodeSpan computes the source line range covered by a node, scanning its
// subtree for position segments. Returns nil when the node carries no
// position metadata.
func nodeSpan(n ast.Node, content []byte, file string) *SourceLocation {
	start, stop := -1, -1

	grow := func(s, e int) {
		if start == -1 || s < start {
			start = s
		}
		if e > stop {
			stop = e
		}
	}

	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if c.Type() == ast.TypeBlock && c.Lines().Len() > 0 {
			grow(c.Lines().At(0).Start, c.Lines().At(c.Lines().Len()-1).Stop)
		}
		if t, ok := c.(*ast.Text); ok {
			grow(t.Segment.Start, t.Segment.Stop)
		}
		return ast.WalkContinue, nil
	})

	if start == -1 {
		return nil
	}

	startLine := lineNumber(content, start)
	endLine := lineNumber(content, stop)
	if stop > 0 && stop <= len(content) && content[stop-1] == '\n' {
		endLine--
	}
	if endLine < startLine {
		endLine = startLine
	}

	return &SourceLocation{File: file, StartLine: startLine, EndLine: endLine}
}
