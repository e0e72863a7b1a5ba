// Package render turns a laid-out widget tree into an ordered,
// backend-agnostic sequence of drawing primitives.
//
// The pipeline walks the tree in z-order and emits paths, text runs,
// images and clip operations. For identical inputs (tree snapshot,
// dataset view, canvas size) the emitted stream is reproducible
// byte for byte, which keeps export regression tests stable. Every
// primitive carries a back-reference to its originating widget node
// and, where it makes sense, a data-space coordinate, so a device
// point can be mapped back to (widget, data value) without
// re-rendering.
package render

import (
	"fmt"
	"image"
	"image/color"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/widget"
)

// Op selects the primitive type.
type Op uint8

const (
	OpPath Op = iota
	OpText
	OpImage
	OpClipPush
	OpClipPop
)

func (o Op) String() string {
	return []string{"path", "text", "image", "clip-push", "clip-pop"}[o]
}

// A Stroke describes how a path outline is drawn. Cap and Join are
// recorded for backends that distinguish them; the vg backends draw
// their default (round) style.
type Stroke struct {
	Color    color.RGBA
	Width    vg.Length
	Dashes   []vg.Length
	DashOffs vg.Length
	Cap      string // butt, round, square
	Join     string // miter, round, bevel
}

// A FontSpec names a font face and size without binding to a backend
// font object.
type FontSpec struct {
	Name string
	Size vg.Length
}

// A Primitive is one drawing command. Which fields are meaningful
// depends on Op.
type Primitive struct {
	Op   Op
	Node widget.ID

	// Data is the data-space coordinate this primitive represents,
	// if any, used by hit testing.
	Data []float64

	// OpPath: a polyline / polygon in device points. A nil Stroke
	// means fill only; a zero-alpha Fill means stroke only.
	Points []vg.Point
	Stroke *Stroke
	Fill   color.RGBA
	Closed bool

	// OpText: one already-aligned text run. At is the baseline
	// origin; Rot rotates counterclockwise about At.
	Text  string
	Font  FontSpec
	At    vg.Point
	Rot   float64
	Color color.RGBA

	// OpImage places Img into Rect. OpClipPush uses Rect as the clip
	// rectangle.
	Img  image.Image
	Rect vg.Rectangle
}

// A Stream is the ordered primitive sequence of one render pass,
// produced fresh per render request and discarded after consumption.
type Stream struct {
	Prims []Primitive

	// pageStarts indexes the first primitive of each page.
	pageStarts []int
}

func (s *Stream) add(p Primitive) { s.Prims = append(s.Prims, p) }

// StartPage marks the begin of a top-level page in the stream.
func (s *Stream) StartPage() {
	s.pageStarts = append(s.pageStarts, len(s.Prims))
}

// Pages returns the number of pages in the stream.
func (s *Stream) Pages() int { return len(s.pageStarts) }

// PagePrims returns the primitives of page i.
func (s *Stream) PagePrims(i int) []Primitive {
	lo := s.pageStarts[i]
	hi := len(s.Prims)
	if i+1 < len(s.pageStarts) {
		hi = s.pageStarts[i+1]
	}
	return s.Prims[lo:hi]
}

// ClipPush opens a clip region; ClipPop closes the innermost one.
func (s *Stream) ClipPush(node widget.ID, r vg.Rectangle) {
	s.add(Primitive{Op: OpClipPush, Node: node, Rect: r})
}

func (s *Stream) ClipPop(node widget.ID) {
	s.add(Primitive{Op: OpClipPop, Node: node})
}

// Balanced checks the clip push/pop nesting: pops never exceed
// pushes, and the stream is balanced at the end of every page and at
// the end of the document.
func (s *Stream) Balanced() error {
	for i := 0; i < len(s.pageStarts); i++ {
		depth := 0
		for _, p := range s.PagePrims(i) {
			switch p.Op {
			case OpClipPush:
				depth++
			case OpClipPop:
				depth--
			}
			if depth < 0 {
				return fmt.Errorf("render: clip pop without push on page %d", i)
			}
		}
		if depth != 0 {
			return fmt.Errorf("render: page %d ends with %d open clip regions", i, depth)
		}
	}
	return nil
}
