package chartgen

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Manifest is the persisted, order-preserving description of one extraction
// pass. It is sufficient to reconstruct every block without the original
// document.
type Manifest struct {
	Input       string         `json:"input"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Items       []ManifestItem `json:"items"`
}

// ManifestItem is the flattened superset of all block variant fields, plus
// the output file name assigned during rendering. Field presence beyond
// `type` determines which optional arrays are meaningful.
type ManifestItem struct {
	Index  int             `json:"index"`
	Type   BlockType       `json:"type"`
	Title  string          `json:"title,omitempty"`
	Key    string          `json:"key,omitempty"`
	Note   string          `json:"note,omitempty"`
	Output string          `json:"output"`
	Source *SourceLocation `json:"source,omitempty"`

	Chords  []string   `json:"chords,omitempty"`
	Degrees []string   `json:"degrees,omitempty"`
	Bass    []string   `json:"bass,omitempty"`
	Headers []string   `json:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty"`
}

// EncodeManifest flattens the ordered blocks of one extraction pass and
// their assigned output names (equal length, same order) into a Manifest.
func EncodeManifest(input string, blocks []Block, outputs []string, generatedAt time.Time) (*Manifest, error) {
	if len(blocks) != len(outputs) {
		return nil, fmt.Errorf("block/output count mismatch: %d blocks, %d outputs", len(blocks), len(outputs))
	}

	m := &Manifest{
		Input:       input,
		GeneratedAt: generatedAt,
		Items:       make([]ManifestItem, 0, len(blocks)),
	}

	for i, b := range blocks {
		item := ManifestItem{
			Index:  b.Occurrence(),
			Type:   b.Type(),
			Title:  b.BlockTitle(),
			Output: outputs[i],
			Source: b.Location(),
		}

		switch v := b.(type) {
		case *TableBlock:
			// A table's title mirrors its caption, persisted once
			item.Title = v.Caption
			item.Headers = v.Headers
			item.Rows = v.Rows
		case *ChordProgressionBlock:
			item.Key = v.Key
			item.Note = v.Note
			item.Chords = v.Chords
		case *DegreeProgressionBlock:
			item.Key = v.Key
			item.Note = v.Note
			item.Degrees = v.Degrees
		case *ScoreBlock:
			item.Key = v.Key
			item.Note = v.Note
			item.Chords = v.Chords
			item.Bass = v.Bass
		}

		m.Items = append(m.Items, item)
	}

	return m, nil
}

// Blocks reconstructs the typed blocks described by the manifest,
// independent of the original document.
//
// An item with an unrecognized type is an unrecoverable input error: no
// partial result is returned, since silently dropping an item would corrupt
// the round-trip contract.
func (m *Manifest) Blocks() ([]Block, error) {
	blocks := make([]Block, 0, len(m.Items))

	for _, item := range m.Items {
		b, err := BlockFromItem(item)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

// BlockFromItem reverses the manifest flattening for one item. Absent
// arrays default to empty sequences for the fields their type requires;
// a score's chords/bass stay nil when absent. The source location, if
// present, passes through unchanged.
func BlockFromItem(item ManifestItem) (Block, error) {
	meta := BlockMeta{
		Index:  item.Index,
		Title:  item.Title,
		Source: item.Source,
	}

	switch item.Type {
	case TypeTable:
		return &TableBlock{
			BlockMeta: meta,
			Caption:   item.Title,
			Headers:   orEmpty(item.Headers),
			Rows:      orEmptyRows(item.Rows),
		}, nil

	case TypeChordProgression:
		return &ChordProgressionBlock{
			BlockMeta: meta,
			Key:       item.Key,
			Chords:    orEmpty(item.Chords),
			Note:      item.Note,
		}, nil

	case TypeDegreeProgression:
		return &DegreeProgressionBlock{
			BlockMeta: meta,
			Key:       item.Key,
			Degrees:   orEmpty(item.Degrees),
			Note:      item.Note,
		}, nil

	case TypeScore:
		return &ScoreBlock{
			BlockMeta: meta,
			Key:       item.Key,
			Chords:    item.Chords,
			Bass:      item.Bass,
			Note:      item.Note,
		}, nil

	default:
		return nil, fmt.Errorf("manifest item %d: unrecognized block type %q", item.Index, item.Type)
	}
}

// ParseManifest reads a persisted manifest document.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// MarshalIndent renders the manifest in its persisted form.
func (m *Manifest) MarshalIndent() ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return append(out, '\n'), nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func orEmptyRows(rows [][]string) [][]string {
	if rows == nil {
		return [][]string{}
	}
	return rows
}
