package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Ternary, rangeTernary, emitTernary)
}

// ternaryXY maps normalized barycentric fractions onto the unit
// triangle with corners A=(0,0), B=(1,0), C=(1/2, sqrt(3)/2).
func ternaryXY(a, b, c float64) (x, y float64) {
	sum := a + b + c
	if sum == 0 {
		return math.NaN(), math.NaN()
	}
	a, b, c = a/sum, b/sum, c/sum
	return b + c/2, c * math.Sqrt(3) / 2
}

// rangeTernary claims the full triangle so the frame is always
// visible regardless of the data.
func rangeTernary(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	for _, key := range []widget.Key{widget.KeyAData, widget.KeyBData, widget.KeyCData} {
		if _, err := p.values(n, key); err != nil {
			return xext, yext, err
		}
	}
	xext.Add(0, 1)
	yext.Add(0, math.Sqrt(3)/2)
	return xext, yext, nil
}

// emitTernary draws the triangle frame and the points inside it.
func emitTernary(p *pass, g *graphCtx, n *widget.Node) {
	ad, err := p.values(n, widget.KeyAData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	bd, err := p.values(n, widget.KeyBData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	cd, err := p.values(n, widget.KeyCData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}

	frame := &Stroke{Color: p.sty.Axis.Color, Width: p.sty.Axis.Width}
	corners := []vg.Point{
		g.point(0, 0),
		g.point(1, 0),
		g.point(0.5, math.Sqrt(3)/2),
	}
	if finitePoint(corners[0]) && finitePoint(corners[1]) && finitePoint(corners[2]) {
		p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Points: corners,
			Stroke: frame, Closed: true})
	}

	stroke := p.elementStroke(n)
	marker := n.Str(widget.KeyMarker, "circle")
	size := vg.Length(n.Float(widget.KeyMarkerSize, float64(p.sty.Element.MarkerSize)))
	m := ad.Len()
	for _, d := range []int{bd.Len(), cd.Len()} {
		if d < m {
			m = d
		}
	}
	var run []vg.Point
	for i := 0; i < m; i++ {
		x, y := ternaryXY(ad.Values[i], bd.Values[i], cd.Values[i])
		if math.IsNaN(x) {
			continue
		}
		pt := g.point(x, y)
		if !finitePoint(pt) {
			continue
		}
		run = append(run, pt)
		if marker != "none" {
			p.emitMarker(n.ID(), marker, pt, size, stroke.Color, []float64{x, y})
		}
	}
	if len(run) > 1 && n.Float(widget.KeyLineWidth, 0) > 0 {
		p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Points: run, Stroke: stroke})
	}
}
