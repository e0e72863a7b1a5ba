// Package layout assigns a rectangular device region to every widget
// of a laid-out page.
//
// The pass is single, top-down and deterministic: pages fill the
// canvas, grids partition their rectangle by row/column ratios,
// graphs reserve margin space measured from the actual tick labels of
// their axes and hand the remaining plot area to their children.
// Coordinates are device-independent printer's points with the origin
// at the bottom left, the vg convention.
package layout

import (
	"fmt"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

// An OverflowError reports that a graph's margins exceed its
// rectangle. The margins are clamped and the error travels as a
// warning.
type OverflowError struct {
	Node widget.ID
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("layout: margins of node %d exceed its rectangle, clamped", e.Node)
}

// Metrics supplies the text measurements the layout needs. Margin
// sizing depends on the rendered tick labels, which is why layout
// runs after scaling.
type Metrics struct {
	TickFont  vg.Font
	LabelFont vg.Font
	TitleFont vg.Font

	TickLength vg.Length
	Pad        vg.Length
}

// A Result maps node IDs to their resolved rectangles. PlotArea
// holds, per graph, the inner rectangle after margins; primitives of
// the graph's plot elements are clipped to it. Results are valid for
// one render pass only and are never persisted.
type Result struct {
	Rects    map[widget.ID]vg.Rectangle
	PlotArea map[widget.ID]vg.Rectangle
	Warnings []error
}

// Scaled gives layout access to the scaling pass results, keyed by
// axis node ID.
type Scaled func(axis widget.ID) *scale.Result

// Compute lays out one page into a canvas of the given size.
func Compute(page *widget.Node, size vg.Point, m Metrics, scaled Scaled) *Result {
	res := &Result{
		Rects:    make(map[widget.ID]vg.Rectangle),
		PlotArea: make(map[widget.ID]vg.Rectangle),
	}
	full := vg.Rectangle{Max: size}
	res.place(page, full, m, scaled)
	return res
}

// place assigns rect to n and recurses per kind.
func (res *Result) place(n *widget.Node, rect vg.Rectangle, m Metrics, scaled Scaled) {
	res.Rects[n.ID()] = rect
	switch n.Kind() {
	case widget.Page:
		res.placePage(n, rect, m, scaled)
	case widget.Grid:
		res.placeGrid(n, rect, m, scaled)
	case widget.Graph:
		res.placeGraph(n, rect, m, scaled)
	default:
		// Leaves (plot elements, labels, shapes) receive their
		// parent's plot area or rectangle and are not subdivided.
		for _, c := range n.Children() {
			res.place(c, rect, m, scaled)
		}
	}
}

// placePage stacks the page's non-overlay children top to bottom in
// equal rows; a child with the overlay property set spans the full
// page on top of its siblings.
func (res *Result) placePage(n *widget.Node, rect vg.Rectangle, m Metrics, scaled Scaled) {
	// Labels and shapes are annotations positioned by fractions of
	// the page; they always span the full rectangle.
	spansPage := func(c *widget.Node) bool {
		switch c.Kind() {
		case widget.Label, widget.Shape:
			return true
		}
		return c.Bool(widget.KeyOverlay, false)
	}

	rows := 0
	for _, c := range n.Children() {
		if !spansPage(c) {
			rows++
		}
	}
	height := rect.Max.Y - rect.Min.Y
	i := 0
	for _, c := range n.Children() {
		if spansPage(c) {
			res.place(c, rect, m, scaled)
			continue
		}
		top := rect.Max.Y - vg.Length(i)/vg.Length(rows)*height
		bottom := rect.Max.Y - vg.Length(i+1)/vg.Length(rows)*height
		res.place(c, vg.Rectangle{
			Min: vg.Point{X: rect.Min.X, Y: bottom},
			Max: vg.Point{X: rect.Max.X, Y: top},
		}, m, scaled)
		i++
	}
}

// ratios resolves the size ratios for count cells. Configured ratios
// apply where given; unspecified cells split the remaining weight
// evenly.
func ratios(configured []float64, count int) []float64 {
	out := make([]float64, count)
	sum, unset := 0.0, 0
	for i := range out {
		if i < len(configured) && configured[i] > 0 {
			out[i] = configured[i]
			sum += configured[i]
		} else {
			unset++
		}
	}
	if unset > 0 {
		fill := 1.0
		if sum > 0 {
			// Unset cells share the mean configured weight.
			fill = sum / float64(count-unset)
		}
		for i := range out {
			if out[i] == 0 {
				out[i] = fill
				sum += fill
			}
		}
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// placeGrid partitions rect into rows × columns and lays children
// into the cells in z-order, row major, top row first. Children
// beyond the configured capacity get extra rows.
func (res *Result) placeGrid(n *widget.Node, rect vg.Rectangle, m Metrics, scaled Scaled) {
	children := n.Children()
	cols := n.Int(widget.KeyColumns, 0)
	rows := n.Int(widget.KeyRows, 0)
	if cols <= 0 {
		cols = 1
	}
	if need := (len(children) + cols - 1) / cols; rows < need {
		rows = need
	}
	if rows <= 0 {
		rows = 1
	}

	rw := ratios(n.FloatsOr(widget.KeyRowRatios, nil), rows)
	cw := ratios(n.FloatsOr(widget.KeyColRatios, nil), cols)

	width := rect.Max.X - rect.Min.X
	height := rect.Max.Y - rect.Min.Y

	// Cell edges, columns left to right, rows top to bottom.
	xs := make([]vg.Length, cols+1)
	xs[0] = rect.Min.X
	for i := 0; i < cols; i++ {
		xs[i+1] = xs[i] + vg.Length(cw[i])*width
	}
	ys := make([]vg.Length, rows+1)
	ys[0] = rect.Max.Y
	for i := 0; i < rows; i++ {
		ys[i+1] = ys[i] - vg.Length(rw[i])*height
	}

	pad := m.Pad
	for i, c := range children {
		row, col := i/cols, i%cols
		if row >= rows {
			row = rows - 1
		}
		cell := vg.Rectangle{
			Min: vg.Point{X: xs[col] + pad/2, Y: ys[row+1] + pad/2},
			Max: vg.Point{X: xs[col+1] - pad/2, Y: ys[row] - pad/2},
		}
		res.place(c, clip(cell, rect), m, scaled)
	}
}

// axisExtent measures the space an axis needs beside the plot area:
// tick length, widest (horizontal) or tallest (vertical) tick label
// and the axis label line.
func axisExtent(axis *widget.Node, m Metrics, scaled Scaled, vertical bool) vg.Length {
	ext := m.TickLength + m.Pad
	r := scaled(axis.ID())

	labelHeight := m.TickFont.Extents().Height
	if r != nil {
		widest := vg.Length(0)
		for _, tk := range r.Ticks {
			if tk.Minor {
				continue
			}
			if w := m.TickFont.Width(tk.Label); w > widest {
				widest = w
			}
		}
		if vertical {
			ext += widest
		} else {
			ext += labelHeight
		}
	}
	if axis.Str(widget.KeyAxisLabel, "") != "" {
		ext += m.LabelFont.Extents().Height + m.Pad
	}
	return ext
}

// placeGraph reserves margins for title and axes and assigns the
// remaining inner rectangle as the plot area. Nested graphs lay out
// inside the parent's plot area through their position properties.
func (res *Result) placeGraph(n *widget.Node, rect vg.Rectangle, m Metrics, scaled Scaled) {
	left := m.Pad
	bottom := m.Pad
	top := m.Pad
	right := m.Pad

	if n.Str(widget.KeyTitle, "") != "" {
		top += m.TitleFont.Extents().Height + m.Pad
	}
	for _, c := range n.Children() {
		if c.Kind() != widget.Axis || c.Bool(widget.KeyHidden, false) {
			continue
		}
		if c.Str(widget.KeyDirection, "horizontal") == "vertical" {
			left += axisExtent(c, m, scaled, true)
		} else {
			bottom += axisExtent(c, m, scaled, false)
		}
	}

	width := rect.Max.X - rect.Min.X
	height := rect.Max.Y - rect.Min.Y
	if left+right >= width || top+bottom >= height {
		res.Warnings = append(res.Warnings, &OverflowError{Node: n.ID()})
		if left+right >= width {
			scaleDown := width * 0.4 / (left + right)
			left *= scaleDown
			right *= scaleDown
		}
		if top+bottom >= height {
			scaleDown := height * 0.4 / (top + bottom)
			top *= scaleDown
			bottom *= scaleDown
		}
	}

	area := vg.Rectangle{
		Min: vg.Point{X: rect.Min.X + left, Y: rect.Min.Y + bottom},
		Max: vg.Point{X: rect.Max.X - right, Y: rect.Max.Y - top},
	}
	res.PlotArea[n.ID()] = area

	for _, c := range n.Children() {
		switch c.Kind() {
		case widget.Axis:
			res.Rects[c.ID()] = rect
		case widget.Graph:
			// Nested graph: fractional position inside the plot
			// area, default the full area.
			sub := fractionalRect(c, area)
			res.place(c, clip(sub, area), m, scaled)
		default:
			res.place(c, area, m, scaled)
		}
	}
}

// fractionalRect resolves the xPos/yPos/width/height fraction
// properties of n against rect.
func fractionalRect(n *widget.Node, rect vg.Rectangle) vg.Rectangle {
	w := rect.Max.X - rect.Min.X
	h := rect.Max.Y - rect.Min.Y
	fx := n.Float(widget.KeyXPos, 0)
	fy := n.Float(widget.KeyYPos, 0)
	fw := n.Float(widget.KeyWidth, 1)
	fh := n.Float(widget.KeyHeight, 1)
	return vg.Rectangle{
		Min: vg.Point{X: rect.Min.X + vg.Length(fx)*w, Y: rect.Min.Y + vg.Length(fy)*h},
		Max: vg.Point{X: rect.Min.X + vg.Length(fx+fw)*w, Y: rect.Min.Y + vg.Length(fy+fh)*h},
	}
}

// clip returns r limited to bounds. Children never escape their
// parent rectangle.
func clip(r, bounds vg.Rectangle) vg.Rectangle {
	if r.Min.X < bounds.Min.X {
		r.Min.X = bounds.Min.X
	}
	if r.Min.Y < bounds.Min.Y {
		r.Min.Y = bounds.Min.Y
	}
	if r.Max.X > bounds.Max.X {
		r.Max.X = bounds.Max.X
	}
	if r.Max.Y > bounds.Max.Y {
		r.Max.Y = bounds.Max.Y
	}
	if r.Max.X < r.Min.X {
		r.Max.X = r.Min.X
	}
	if r.Max.Y < r.Min.Y {
		r.Max.Y = r.Min.Y
	}
	return r
}
