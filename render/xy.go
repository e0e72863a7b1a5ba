package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.XY, rangeXY, emitXY)
}

// rangeXY accumulates the error-inclusive extents of an xy element.
// Point count is the shorter of the two datasets.
func rangeXY(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	xd, err := p.values(n, widget.KeyXData)
	if err != nil {
		return xext, yext, err
	}
	yd, err := p.values(n, widget.KeyYData)
	if err != nil {
		return xext, yext, err
	}
	m := xd.Len()
	if yd.Len() < m {
		m = yd.Len()
	}
	for i := 0; i < m; i++ {
		_, xlo, xhi := xd.Point(i)
		_, ylo, yhi := yd.Point(i)
		xext.Add(xlo, xhi)
		yext.Add(ylo, yhi)
	}
	return xext, yext, nil
}

// emitXY draws the connecting line (with optional stepping), error
// bars and markers, in that z-order.
func emitXY(p *pass, g *graphCtx, n *widget.Node) {
	xd, err := p.values(n, widget.KeyXData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	yd, err := p.values(n, widget.KeyYData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	m := xd.Len()
	if yd.Len() < m {
		m = yd.Len()
	}

	stroke := p.elementStroke(n)
	step := n.Str(widget.KeyStep, "off")

	// Connecting line. Non-finite points break the line into
	// separate path primitives.
	var run []vg.Point
	var prev vg.Point
	havePrev := false
	flush := func() {
		if len(run) > 1 {
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Points: run, Stroke: stroke})
		}
		run = nil
	}
	for i := 0; i < m; i++ {
		xv, _, _ := xd.Point(i)
		yv, _, _ := yd.Point(i)
		if math.IsNaN(xv) || math.IsNaN(yv) {
			flush()
			havePrev = false
			continue
		}
		pt := g.point(xv, yv)
		if !finitePoint(pt) {
			flush()
			havePrev = false
			continue
		}
		if havePrev {
			run = append(run, stepPoints(prev, pt, step)...)
		}
		run = append(run, pt)
		prev, havePrev = pt, true
	}
	flush()

	// Error bars.
	for i := 0; i < m; i++ {
		xv, xlo, xhi := xd.Point(i)
		yv, ylo, yhi := yd.Point(i)
		if math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		data := []float64{xv, yv}
		if xlo < xv || xhi > xv {
			a, b := g.point(xlo, yv), g.point(xhi, yv)
			if finitePoint(a) && finitePoint(b) {
				p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Data: data,
					Points: []vg.Point{a, b}, Stroke: stroke})
			}
		}
		if ylo < yv || yhi > yv {
			a, b := g.point(xv, ylo), g.point(xv, yhi)
			if finitePoint(a) && finitePoint(b) {
				p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Data: data,
					Points: []vg.Point{a, b}, Stroke: stroke})
			}
		}
	}

	// Markers on top.
	marker := n.Str(widget.KeyMarker, "none")
	if marker == "none" {
		return
	}
	size := vg.Length(n.Float(widget.KeyMarkerSize, float64(p.sty.Element.MarkerSize)))
	for i := 0; i < m; i++ {
		xv, _, _ := xd.Point(i)
		yv, _, _ := yd.Point(i)
		if math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		pt := g.point(xv, yv)
		if !finitePoint(pt) {
			continue
		}
		p.emitMarker(n.ID(), marker, pt, size, stroke.Color, []float64{xv, yv})
	}
}

// stepPoints returns the intermediate corner points between two
// consecutive line points for the given step mode.
func stepPoints(a, b vg.Point, mode string) []vg.Point {
	switch mode {
	case "left":
		return []vg.Point{{X: a.X, Y: b.Y}}
	case "right":
		return []vg.Point{{X: b.X, Y: a.Y}}
	case "center":
		mid := (a.X + b.X) / 2
		return []vg.Point{{X: mid, Y: a.Y}, {X: mid, Y: b.Y}}
	}
	return nil
}
