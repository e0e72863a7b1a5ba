package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Contour, rangeContour, emitContour)
}

func rangeContour(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	gd, err := decodeGrid(p, n)
	if err != nil {
		return xext, yext, err
	}
	for _, x := range gd.x[:gd.cols] {
		xext.AddValue(x)
	}
	for _, y := range gd.y[:gd.rows] {
		yext.AddValue(y)
	}
	return xext, yext, nil
}

// contourLevels picks round level values inside the z range, reusing
// the linear tick machinery.
func contourLevels(zmin, zmax float64, count int) []float64 {
	if count <= 0 {
		count = 8
	}
	if !(zmin < zmax) {
		return nil
	}
	cfg := scale.DefaultConfig()
	cfg.Min, cfg.Max = zmin, zmax
	cfg.MarginFrac = 0
	cfg.TickTarget = count
	ext := scale.NewExtents()
	ext.Add(zmin, zmax)
	var levels []float64
	for _, t := range scale.Compute(cfg, ext).Ticks {
		if !t.Minor && t.Value > zmin && t.Value < zmax {
			levels = append(levels, t.Value)
		}
	}
	return levels
}

// emitContour traces iso-lines with marching squares, one cell at a
// time. Each level gets its color from the element's color map.
func emitContour(p *pass, g *graphCtx, n *widget.Node) {
	gd, err := decodeGrid(p, n)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	if gd.rows < 2 || gd.cols < 2 {
		return
	}
	levels := contourLevels(gd.zmin, gd.zmax, n.Int(widget.KeyLevels, 8))
	cm := ColorMapByName(n.Str(widget.KeyColorMap, ""))
	cm.SetMin(gd.zmin)
	cm.SetMax(gd.zmax)
	width := vg.Length(n.Float(widget.KeyLineWidth, float64(p.sty.Element.LineWidth)))

	for _, level := range levels {
		col := p.sty.Element.Color
		if c, err := cm.At(level); err == nil {
			col = toRGBA(c)
		}
		stroke := &Stroke{Color: col, Width: width}
		for r := 0; r+1 < gd.rows; r++ {
			for c := 0; c+1 < gd.cols; c++ {
				p.emitCellSegments(n.ID(), g, gd, r, c, level, stroke)
			}
		}
	}
}

// crossing interpolates where the level crosses the edge between two
// corner values.
func crossing(v0, v1, level float64) float64 {
	if v1 == v0 {
		return 0.5
	}
	return (level - v0) / (v1 - v0)
}

// emitCellSegments handles one marching-squares cell. Corner indices:
// 0 bottom-left, 1 bottom-right, 2 top-right, 3 top-left. Saddle
// cells are disambiguated by the cell center average.
func (p *pass) emitCellSegments(node widget.ID, g *graphCtx, gd *gridData, r, c int, level float64, stroke *Stroke) {
	v := [4]float64{gd.at(r, c), gd.at(r, c+1), gd.at(r+1, c+1), gd.at(r+1, c)}
	for _, vv := range v {
		if math.IsNaN(vv) {
			return
		}
	}
	idx := 0
	for i, vv := range v {
		if vv >= level {
			idx |= 1 << i
		}
	}
	if idx == 0 || idx == 15 {
		return
	}

	x0, x1 := gd.x[c], gd.x[c+1]
	y0, y1 := gd.y[r], gd.y[r+1]
	// Edge midpoints in data space: 0 bottom, 1 right, 2 top, 3 left.
	edge := func(e int) (float64, float64) {
		switch e {
		case 0:
			return x0 + crossing(v[0], v[1], level)*(x1-x0), y0
		case 1:
			return x1, y0 + crossing(v[1], v[2], level)*(y1-y0)
		case 2:
			return x0 + crossing(v[3], v[2], level)*(x1-x0), y1
		default:
			return x0, y0 + crossing(v[0], v[3], level)*(y1-y0)
		}
	}
	seg := func(e0, e1 int) {
		ax, ay := edge(e0)
		bx, by := edge(e1)
		a, b := g.point(ax, ay), g.point(bx, by)
		if finitePoint(a) && finitePoint(b) {
			p.stream.add(Primitive{Op: OpPath, Node: node, Data: []float64{level},
				Points: []vg.Point{a, b}, Stroke: stroke})
		}
	}

	switch idx {
	case 1, 14:
		seg(3, 0)
	case 2, 13:
		seg(0, 1)
	case 4, 11:
		seg(1, 2)
	case 8, 7:
		seg(2, 3)
	case 3, 12:
		seg(3, 1)
	case 6, 9:
		seg(0, 2)
	case 5:
		if (v[0]+v[1]+v[2]+v[3])/4 >= level {
			seg(3, 2)
			seg(0, 1)
		} else {
			seg(3, 0)
			seg(1, 2)
		}
	case 10:
		if (v[0]+v[1]+v[2]+v[3])/4 >= level {
			seg(3, 0)
			seg(1, 2)
		} else {
			seg(3, 2)
			seg(0, 1)
		}
	}
}

func toRGBA(c color.Color) color.RGBA {
	r, g, b, a := c.RGBA()
	return color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
