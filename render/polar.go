package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Polar, rangePolar, emitPolar)
}

// polarMax finds the largest finite radius.
func polarMax(rs []float64) float64 {
	max := 0.0
	for _, r := range rs {
		if !math.IsNaN(r) && !math.IsInf(r, 0) && math.Abs(r) > max {
			max = math.Abs(r)
		}
	}
	return max
}

// rangePolar claims the square [-rmax, rmax] in both directions so
// the rings come out round on equal axis ranges.
func rangePolar(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	rd, err := p.values(n, widget.KeyRData)
	if err != nil {
		return xext, yext, err
	}
	if _, err := p.values(n, widget.KeyThData); err != nil {
		return xext, yext, err
	}
	rmax := polarMax(rd.Values)
	if rmax == 0 {
		rmax = 1
	}
	xext.Add(-rmax, rmax)
	yext.Add(-rmax, rmax)
	return xext, yext, nil
}

// emitPolar draws the polar grid (rings and spokes) and the curve on
// top, all in the Cartesian frame of the surrounding graph.
func emitPolar(p *pass, g *graphCtx, n *widget.Node) {
	rd, err := p.values(n, widget.KeyRData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	td, err := p.values(n, widget.KeyThData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	rmax := polarMax(rd.Values)
	if rmax == 0 {
		rmax = 1
	}

	grid := &Stroke{Color: p.sty.Axis.Grid.Color, Width: p.sty.Axis.Grid.Width}
	for _, f := range []float64{0.25, 0.5, 0.75, 1} {
		r := rmax * f
		const steps = 72
		pts := make([]vg.Point, 0, steps+1)
		ok := true
		for i := 0; i <= steps; i++ {
			a := 2 * math.Pi * float64(i) / steps
			pt := g.point(r*math.Cos(a), r*math.Sin(a))
			if !finitePoint(pt) {
				ok = false
				break
			}
			pts = append(pts, pt)
		}
		if ok {
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Points: pts, Stroke: grid})
		}
	}
	center := g.point(0, 0)
	for i := 0; i < 12; i++ {
		a := 2 * math.Pi * float64(i) / 12
		tip := g.point(rmax*math.Cos(a), rmax*math.Sin(a))
		if finitePoint(center) && finitePoint(tip) {
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(),
				Points: []vg.Point{center, tip}, Stroke: grid})
		}
	}

	stroke := p.elementStroke(n)
	m := rd.Len()
	if td.Len() < m {
		m = td.Len()
	}
	var run []vg.Point
	flush := func() {
		if len(run) > 1 {
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Points: run, Stroke: stroke})
		}
		run = nil
	}
	marker := n.Str(widget.KeyMarker, "none")
	size := vg.Length(n.Float(widget.KeyMarkerSize, float64(p.sty.Element.MarkerSize)))
	for i := 0; i < m; i++ {
		r, th := rd.Values[i], td.Values[i]
		if math.IsNaN(r) || math.IsNaN(th) {
			flush()
			continue
		}
		x, y := r*math.Cos(th), r*math.Sin(th)
		pt := g.point(x, y)
		if !finitePoint(pt) {
			flush()
			continue
		}
		run = append(run, pt)
		if marker != "none" {
			p.emitMarker(n.ID(), marker, pt, size, stroke.Color, []float64{x, y})
		}
	}
	flush()
}
