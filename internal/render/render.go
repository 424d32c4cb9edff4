package render

import (
	"github.com/chordworks/chartgen"
)

// Options is the small record handed to a renderer alongside a block.
type Options struct {
	// Width is the display width of the rendered image, in pixels
	Width int
	// Scale is the pixel scale multiplier
	Scale float64
	// AccentColor highlights titles and keys
	AccentColor string
}

var DefaultOptions = Options{
	Width:       640,
	Scale:       1.0,
	AccentColor: "#2f6f4f",
}

// Renderer turns a typed block into an opaque image buffer. The engine does
// not know or care how the buffer is produced.
type Renderer interface {
	// Render produces the image bytes for one block.
	Render(b chartgen.Block, opts Options) ([]byte, error)
	// Ext returns the file extension for produced buffers, without the dot.
	Ext() string
}
