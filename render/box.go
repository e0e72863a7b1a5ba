package render

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Box, rangeBox, emitBox)
}

// boxStats summarizes one sample for a box plot. Whiskers reach to
// the most extreme point still within 1.5 IQR of the box; everything
// beyond is an outlier.
type boxStats struct {
	q1, med, q3    float64
	loWhis, hiWhis float64
	outliers       []float64
}

func computeBoxStats(vals []float64) (boxStats, bool) {
	var xs []float64
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return boxStats{}, false
	}
	sort.Float64s(xs)
	var s boxStats
	s.q1 = stat.Quantile(0.25, stat.Empirical, xs, nil)
	s.med = stat.Quantile(0.5, stat.Empirical, xs, nil)
	s.q3 = stat.Quantile(0.75, stat.Empirical, xs, nil)
	iqr := s.q3 - s.q1
	loFence, hiFence := s.q1-1.5*iqr, s.q3+1.5*iqr
	s.loWhis, s.hiWhis = s.q3, s.q1
	for _, v := range xs {
		if v < loFence || v > hiFence {
			s.outliers = append(s.outliers, v)
			continue
		}
		if v < s.loWhis {
			s.loWhis = v
		}
		if v > s.hiWhis {
			s.hiWhis = v
		}
	}
	return s, true
}

func rangeBox(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	yd, err := p.values(n, widget.KeyYData)
	if err != nil {
		return xext, yext, err
	}
	s, ok := computeBoxStats(yd.Values)
	if !ok {
		return xext, yext, nil
	}
	pos := n.Float(widget.KeyXPos, 1)
	w := n.Float(widget.KeyBarWidth, 0.5)
	xext.Add(pos-w, pos+w)
	yext.Add(s.loWhis, s.hiWhis)
	for _, v := range s.outliers {
		yext.AddValue(v)
	}
	return xext, yext, nil
}

// emitBox draws the box, median line, whiskers with caps and outlier
// markers of one sample.
func emitBox(p *pass, g *graphCtx, n *widget.Node) {
	yd, err := p.values(n, widget.KeyYData)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	s, ok := computeBoxStats(yd.Values)
	if !ok {
		return
	}
	pos := n.Float(widget.KeyXPos, 1)
	w := n.Float(widget.KeyBarWidth, 0.5)
	stroke := p.elementStroke(n)
	fill := n.Color(widget.KeyFillColor, p.sty.Element.FillColor)

	line := func(x0, y0, x1, y1 float64, data []float64) {
		a, b := g.point(x0, y0), g.point(x1, y1)
		if finitePoint(a) && finitePoint(b) {
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Data: data,
				Points: []vg.Point{a, b}, Stroke: stroke})
		}
	}

	// Box from first to third quartile.
	a, b := g.point(pos-w/2, s.q1), g.point(pos+w/2, s.q3)
	if finitePoint(a) && finitePoint(b) {
		p.stream.add(Primitive{
			Op:   OpPath,
			Node: n.ID(),
			Data: []float64{pos, s.med},
			Points: []vg.Point{
				{X: a.X, Y: a.Y}, {X: b.X, Y: a.Y},
				{X: b.X, Y: b.Y}, {X: a.X, Y: b.Y},
			},
			Stroke: stroke,
			Fill:   fill,
			Closed: true,
		})
	}
	line(pos-w/2, s.med, pos+w/2, s.med, []float64{pos, s.med})

	// Whiskers with end caps.
	line(pos, s.q1, pos, s.loWhis, []float64{pos, s.loWhis})
	line(pos, s.q3, pos, s.hiWhis, []float64{pos, s.hiWhis})
	line(pos-w/4, s.loWhis, pos+w/4, s.loWhis, []float64{pos, s.loWhis})
	line(pos-w/4, s.hiWhis, pos+w/4, s.hiWhis, []float64{pos, s.hiWhis})

	size := vg.Length(n.Float(widget.KeyMarkerSize, float64(p.sty.Element.MarkerSize)))
	for _, v := range s.outliers {
		pt := g.point(pos, v)
		if finitePoint(pt) {
			p.emitMarker(n.ID(), "circle", pt, size, stroke.Color, []float64{pos, v})
		}
	}
}
