// Package widget implements the typed widget tree of a plot document.
//
// A document is an ownership tree of typed nodes: pages hold grids and
// graphs, graphs hold axes and plot elements, and so on. Every node
// carries a property map whose keys and types are fixed per node kind
// and validated at edit time. Children are owned exclusively by their
// parent; their order is both z-order and layout order.
package widget

// Kind is the closed set of node types. Behavior per kind (range
// contribution, primitive emission) lives in tables in the render
// package, so adding a plot-element kind means one constant here plus
// one table entry there.
type Kind int

const (
	Root Kind = iota
	Page
	Grid
	Graph
	Axis
	XY
	Bar
	Box
	Contour
	Image
	VectorField
	Polar
	Ternary
	Function
	Label
	Shape
)

var kindNames = []string{
	"root", "page", "grid", "graph", "axis",
	"xy", "bar", "box", "contour", "image", "vectorfield",
	"polar", "ternary", "function", "label", "shape",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPlotElement reports whether k draws data inside a graph's plot
// area.
func (k Kind) IsPlotElement() bool {
	switch k {
	case XY, Bar, Box, Contour, Image, VectorField, Polar, Ternary, Function:
		return true
	}
	return false
}

// allowedChildren lists which kinds may be added under which parent.
var allowedChildren = map[Kind][]Kind{
	Root:  {Page},
	Page:  {Grid, Graph, Label, Shape},
	Grid:  {Grid, Graph, Label, Shape},
	Graph: {Axis, XY, Bar, Box, Contour, Image, VectorField, Polar, Ternary, Function, Label, Shape, Graph},
}

func mayContain(parent, child Kind) bool {
	for _, k := range allowedChildren[parent] {
		if k == child {
			return true
		}
	}
	return false
}
