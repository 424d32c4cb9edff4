package chartgen

// VERSION is the chartgen release version, stamped into generated manifests
// and reported by the binaries.
const VERSION = "0.1.0"

// BlockType identifies one of the four recognized content block shapes.
//
// The set is closed: decoding a manifest with any other value is an error,
// and every consumption site (rendering, naming, codec) switches
// exhaustively over these four tags.
type BlockType string

const (
	TypeTable             BlockType = "table"
	TypeChordProgression  BlockType = "chord-progression"
	TypeDegreeProgression BlockType = "degree-progression"
	TypeScore             BlockType = "score"
)

// KnownType reports whether t is one of the four recognized block types.
func KnownType(t BlockType) bool {
	switch t {
	case TypeTable, TypeChordProgression, TypeDegreeProgression, TypeScore:
		return true
	}
	return false
}

// SourceLocation records where in the source document a block came from.
// It is nil for blocks that were reconstituted from a manifest, or when the
// originating node carried no position metadata.
type SourceLocation struct {
	File      string `json:"file,omitempty"`
	StartLine int    `json:"startLine"`
	EndLine   int    `json:"endLine"`
}

// MetaData about the source file a document was extracted from
type MetaData struct {
	// The source file path
	Source string
}

// Document is the result of one extraction pass over a source file.
type Document struct {
	// Metadata about the source file
	Metadata MetaData
	// The extracted blocks, in occurrence order (indices 1..N)
	Blocks []Block
}

// Block is the sum type over the four content block variants.
//
// Concrete types are *TableBlock, *ChordProgressionBlock,
// *DegreeProgressionBlock and *ScoreBlock. Blocks are value objects:
// created during one extraction or decode pass and never mutated after.
type Block interface {
	// Type returns the variant tag.
	Type() BlockType
	// Occurrence returns the 1-based occurrence index within the pass.
	Occurrence() int
	// BlockTitle returns the optional title ("" when absent).
	BlockTitle() string
	// Location returns the source location, or nil.
	Location() *SourceLocation

	// meta seals the interface to this package's four variants.
	meta() *BlockMeta
}

// BlockMeta holds the fields common to every block variant.
type BlockMeta struct {
	Index  int
	Title  string
	Source *SourceLocation
}

func (m BlockMeta) Occurrence() int           { return m.Index }
func (m BlockMeta) BlockTitle() string        { return m.Title }
func (m BlockMeta) Location() *SourceLocation { return m.Source }

// TableBlock is a two-dimensional table, either a generic markdown table or
// the contents of an explicitly tagged table region.
type TableBlock struct {
	BlockMeta
	// Caption defaults to the preceding heading text; mirrors Title
	Caption string
	Headers []string
	Rows    [][]string
}

func (b *TableBlock) Type() BlockType { return TypeTable }
func (b *TableBlock) meta() *BlockMeta { return &b.BlockMeta }

// ChordProgressionBlock is an ordered run of chord names.
type ChordProgressionBlock struct {
	BlockMeta
	Key    string
	Chords []string
	Note   string
}

func (b *ChordProgressionBlock) Type() BlockType  { return TypeChordProgression }
func (b *ChordProgressionBlock) meta() *BlockMeta { return &b.BlockMeta }

// DegreeProgressionBlock is an ordered run of scale-degree names.
type DegreeProgressionBlock struct {
	BlockMeta
	Key     string
	Degrees []string
	Note    string
}

func (b *DegreeProgressionBlock) Type() BlockType  { return TypeDegreeProgression }
func (b *DegreeProgressionBlock) meta() *BlockMeta { return &b.BlockMeta }

// ScoreBlock is a musical-score fragment described by optional labelled
// chord and bass lines. Both sequences are independently optional and stay
// nil when their label never appeared.
type ScoreBlock struct {
	BlockMeta
	Key    string
	Chords []string
	Bass   []string
	Note   string
}

func (b *ScoreBlock) Type() BlockType  { return TypeScore }
func (b *ScoreBlock) meta() *BlockMeta { return &b.BlockMeta }
