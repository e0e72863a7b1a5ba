package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.VectorField, rangeField, emitField)
}

type fieldPoint struct {
	x, y, u, v float64
}

func fieldData(p *pass, n *widget.Node) ([]fieldPoint, error) {
	xd, err := p.values(n, widget.KeyXData)
	if err != nil {
		return nil, err
	}
	yd, err := p.values(n, widget.KeyYData)
	if err != nil {
		return nil, err
	}
	ud, err := p.values(n, widget.KeyUData)
	if err != nil {
		return nil, err
	}
	vd, err := p.values(n, widget.KeyVData)
	if err != nil {
		return nil, err
	}
	m := xd.Len()
	for _, d := range []int{yd.Len(), ud.Len(), vd.Len()} {
		if d < m {
			m = d
		}
	}
	pts := make([]fieldPoint, 0, m)
	for i := 0; i < m; i++ {
		fp := fieldPoint{xd.Values[i], yd.Values[i], ud.Values[i], vd.Values[i]}
		if math.IsNaN(fp.x) || math.IsNaN(fp.y) || math.IsNaN(fp.u) || math.IsNaN(fp.v) {
			continue
		}
		pts = append(pts, fp)
	}
	return pts, nil
}

// rangeField covers both the arrow bases and their tips.
func rangeField(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	pts, err := fieldData(p, n)
	if err != nil {
		return xext, yext, err
	}
	for _, fp := range pts {
		xext.Add(math.Min(fp.x, fp.x+fp.u), math.Max(fp.x, fp.x+fp.u))
		yext.Add(math.Min(fp.y, fp.y+fp.v), math.Max(fp.y, fp.y+fp.v))
	}
	return xext, yext, nil
}

// emitField draws each vector as a shaft from its base to its tip
// plus a small arrowhead sized in display units.
func emitField(p *pass, g *graphCtx, n *widget.Node) {
	pts, err := fieldData(p, n)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	stroke := p.elementStroke(n)
	head := vg.Length(n.Float(widget.KeyMarkerSize, float64(p.sty.Element.MarkerSize)))

	for _, fp := range pts {
		base := g.point(fp.x, fp.y)
		tip := g.point(fp.x+fp.u, fp.y+fp.v)
		if !finitePoint(base) || !finitePoint(tip) {
			continue
		}
		data := []float64{fp.x, fp.y}
		p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Data: data,
			Points: []vg.Point{base, tip}, Stroke: stroke})

		dx, dy := float64(tip.X-base.X), float64(tip.Y-base.Y)
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		// Two barbs at 150 degrees off the shaft direction.
		ang := math.Atan2(dy, dx)
		for _, da := range []float64{math.Pi - math.Pi/6, -(math.Pi - math.Pi/6)} {
			barb := vg.Point{
				X: tip.X + head*vg.Length(math.Cos(ang+da)),
				Y: tip.Y + head*vg.Length(math.Sin(ang+da)),
			}
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Data: data,
				Points: []vg.Point{tip, barb}, Stroke: stroke})
		}
	}
}
