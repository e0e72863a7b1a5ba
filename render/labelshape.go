package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/widget"
)

// emitLabel draws a free text annotation. Position is a fraction of
// the parent rectangle, the angle is in degrees counterclockwise.
func (p *pass) emitLabel(n *widget.Node, parent vg.Rectangle) {
	text := n.Str(widget.KeyText, "")
	if text == "" {
		return
	}
	at := fracPoint(parent, n.Float(widget.KeyXPos, 0.5), n.Float(widget.KeyYPos, 0.5))
	spec := FontSpec{
		Name: n.Str(widget.KeyFont, p.sty.BaseFont),
		Size: vg.Length(n.Float(widget.KeySize, float64(p.sty.Axis.LabelSize))),
	}
	rot := n.Float(widget.KeyAngle, 0) * math.Pi / 180
	col := n.Color(widget.KeyColor, p.sty.Title.Color)
	p.emitText(n.ID(), text, at, rot, alignCenter, alignCenter, spec, col, nil)
}

// emitShape draws a rectangle or ellipse annotation. Position and
// size are fractions of the parent rectangle.
func (p *pass) emitShape(n *widget.Node, parent vg.Rectangle) {
	cx := n.Float(widget.KeyXPos, 0.5)
	cy := n.Float(widget.KeyYPos, 0.5)
	w := n.Float(widget.KeyWidth, 0.2)
	h := n.Float(widget.KeyHeight, 0.2)
	center := fracPoint(parent, cx, cy)
	rx := vg.Length(w/2) * (parent.Max.X - parent.Min.X)
	ry := vg.Length(h/2) * (parent.Max.Y - parent.Min.Y)

	stroke := &Stroke{
		Color: n.Color(widget.KeyColor, p.sty.Element.Color),
		Width: vg.Length(n.Float(widget.KeyLineWidth, float64(p.sty.Element.LineWidth))),
	}
	var fill = transparent
	if v, ok := n.Property(widget.KeyFillColor); ok {
		fill = v.Color()
	}

	var pts []vg.Point
	switch n.Str(widget.KeyForm, "rectangle") {
	case "ellipse":
		const steps = 64
		pts = make([]vg.Point, steps)
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / steps
			pts[i] = vg.Point{
				X: center.X + rx*vg.Length(math.Cos(a)),
				Y: center.Y + ry*vg.Length(math.Sin(a)),
			}
		}
	default:
		pts = []vg.Point{
			{X: center.X - rx, Y: center.Y - ry},
			{X: center.X + rx, Y: center.Y - ry},
			{X: center.X + rx, Y: center.Y + ry},
			{X: center.X - rx, Y: center.Y + ry},
		}
	}
	p.stream.add(Primitive{
		Op:     OpPath,
		Node:   n.ID(),
		Points: pts,
		Stroke: stroke,
		Fill:   fill,
		Closed: true,
	})
}

// fracPoint maps fractional coordinates into a rectangle, y growing
// upward.
func fracPoint(r vg.Rectangle, fx, fy float64) vg.Point {
	return vg.Point{
		X: r.Min.X + vg.Length(fx)*(r.Max.X-r.Min.X),
		Y: r.Min.Y + vg.Length(fy)*(r.Max.Y-r.Min.Y),
	}
}
