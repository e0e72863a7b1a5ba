package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/widget"
)

// Markers are emitted as small stroked polylines so every backend
// reproduces them identically.

func circlePoints(at vg.Point, r vg.Length) []vg.Point {
	const n = 16
	pts := make([]vg.Point, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / n
		pts[i] = vg.Point{
			X: at.X + r*vg.Length(math.Cos(a)),
			Y: at.Y + r*vg.Length(math.Sin(a)),
		}
	}
	return pts
}

// emitMarker draws one marker glyph centered at the given point.
// Unknown names fall back to a circle.
func (p *pass) emitMarker(node widget.ID, name string, at vg.Point, size vg.Length, col color.RGBA, data []float64) {
	stroke := &Stroke{Color: col, Width: 1}
	add := func(pts []vg.Point, closed bool) {
		p.stream.add(Primitive{
			Op:     OpPath,
			Node:   node,
			Data:   data,
			Points: pts,
			Stroke: stroke,
			Closed: closed,
		})
	}
	r := size / 2
	switch name {
	case "none":
	case "square":
		add([]vg.Point{
			{X: at.X - r, Y: at.Y - r},
			{X: at.X + r, Y: at.Y - r},
			{X: at.X + r, Y: at.Y + r},
			{X: at.X - r, Y: at.Y + r},
		}, true)
	case "diamond":
		add([]vg.Point{
			{X: at.X, Y: at.Y - r},
			{X: at.X + r, Y: at.Y},
			{X: at.X, Y: at.Y + r},
			{X: at.X - r, Y: at.Y},
		}, true)
	case "cross":
		add([]vg.Point{{X: at.X - r, Y: at.Y - r}, {X: at.X + r, Y: at.Y + r}}, false)
		add([]vg.Point{{X: at.X - r, Y: at.Y + r}, {X: at.X + r, Y: at.Y - r}}, false)
	case "plus":
		add([]vg.Point{{X: at.X - r, Y: at.Y}, {X: at.X + r, Y: at.Y}}, false)
		add([]vg.Point{{X: at.X, Y: at.Y - r}, {X: at.X, Y: at.Y + r}}, false)
	default: // circle
		add(circlePoints(at, r), false)
	}
}
