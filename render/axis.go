package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

// emitAxis draws one axis: the axis line along its plot-area edge,
// gap markers over compressed ranges, major and minor tick marks,
// tick labels, optional grid lines and the axis label. Horizontal
// axes sit on the bottom edge, vertical axes on the left edge.
func (p *pass) emitAxis(n *widget.Node, g *graphCtx) {
	vertical := n.Str(widget.KeyDirection, "horizontal") == "vertical"
	res := p.scales[n.ID()]
	if res == nil {
		return
	}
	area := g.area
	col := n.Color(widget.KeyColor, p.sty.Axis.Color)
	width := vg.Length(n.Float(widget.KeyLineWidth, float64(p.sty.Axis.Width)))
	stroke := &Stroke{Color: col, Width: width}
	tickLen := p.sty.Axis.TickLength
	labelSpec := FontSpec{Name: p.sty.BaseFont, Size: p.sty.Axis.TickLabelSize}

	// along maps a normalized axis coordinate onto the edge.
	along := func(u float64) vg.Point {
		if vertical {
			return vg.Point{X: area.Min.X, Y: area.Min.Y + vg.Length(u)*(area.Max.Y-area.Min.Y)}
		}
		return vg.Point{X: area.Min.X + vg.Length(u)*(area.Max.X-area.Min.X), Y: area.Min.Y}
	}

	// Axis line, interrupted at break gaps.
	edges := []float64{0}
	for _, b := range res.BreakRanges() {
		edges = append(edges, res.Norm(b.Min), res.Norm(b.Max))
	}
	edges = append(edges, 1)
	for i := 0; i+1 < len(edges); i += 2 {
		p.stream.add(Primitive{
			Op:     OpPath,
			Node:   n.ID(),
			Points: []vg.Point{along(edges[i]), along(edges[i+1])},
			Stroke: stroke,
		})
	}
	for _, b := range res.BreakRanges() {
		p.emitGapMarker(n.ID(), along(res.Norm(b.Min)), along(res.Norm(b.Max)), stroke)
	}

	grid := n.Bool(widget.KeyGridLines, false)
	for _, t := range res.Ticks {
		u := res.Norm(t.Value)
		if math.IsNaN(u) || u < -1e-9 || u > 1+1e-9 {
			continue
		}
		at := along(u)
		l := tickLen
		if t.Minor {
			l = tickLen / 2
		}
		var end vg.Point
		if vertical {
			end = vg.Point{X: at.X - l, Y: at.Y}
		} else {
			end = vg.Point{X: at.X, Y: at.Y - l}
		}
		p.stream.add(Primitive{
			Op:     OpPath,
			Node:   n.ID(),
			Points: []vg.Point{at, end},
			Stroke: stroke,
		})

		if grid && !t.Minor {
			var far vg.Point
			if vertical {
				far = vg.Point{X: area.Max.X, Y: at.Y}
			} else {
				far = vg.Point{X: at.X, Y: area.Max.Y}
			}
			p.stream.add(Primitive{
				Op:     OpPath,
				Node:   n.ID(),
				Points: []vg.Point{at, far},
				Stroke: &Stroke{Color: p.sty.Axis.Grid.Color, Width: p.sty.Axis.Grid.Width},
			})
		}

		if t.Label == "" {
			continue
		}
		if vertical {
			lp := vg.Point{X: end.X - p.sty.Pad/2, Y: at.Y - labelSpec.Size*0.35}
			p.emitText(n.ID(), t.Label, lp, 0, alignRight, alignLeft, labelSpec, col, []float64{t.Value})
		} else {
			lp := vg.Point{X: at.X, Y: end.Y - p.sty.Pad/2}
			p.emitText(n.ID(), t.Label, lp, 0, alignCenter, alignRight, labelSpec, col, []float64{t.Value})
		}
	}

	if label := n.Str(widget.KeyAxisLabel, ""); label != "" {
		spec := FontSpec{Name: p.sty.BaseFont, Size: p.sty.Axis.LabelSize}
		if vertical {
			lp := vg.Point{
				X: area.Min.X - p.axisMargin(res, labelSpec) - p.sty.Pad,
				Y: (area.Min.Y + area.Max.Y) / 2,
			}
			p.emitText(n.ID(), label, lp, math.Pi/2, alignCenter, alignLeft, spec, col, nil)
		} else {
			lp := vg.Point{
				X: (area.Min.X + area.Max.X) / 2,
				Y: area.Min.Y - tickLen - labelSpec.Size - p.sty.Pad*1.5,
			}
			p.emitText(n.ID(), label, lp, 0, alignCenter, alignRight, spec, col, nil)
		}
	}
}

// axisMargin measures the widest tick label, matching what the layout
// pass reserved.
func (p *pass) axisMargin(res *scale.Result, spec FontSpec) vg.Length {
	f, err := p.font(spec.Name, spec.Size)
	if err != nil {
		return 0
	}
	var w vg.Length
	for _, t := range res.Ticks {
		if t.Label == "" {
			continue
		}
		if lw := f.Width(t.Label); lw > w {
			w = lw
		}
	}
	return w + p.sty.Axis.TickLength
}

// emitGapMarker draws the two short slanted strokes that mark a
// compressed range on the axis line.
func (p *pass) emitGapMarker(node widget.ID, a, b vg.Point, stroke *Stroke) {
	const s = vg.Length(3)
	slash := func(at vg.Point) {
		p0 := vg.Point{X: at.X - s, Y: at.Y - s}
		p1 := vg.Point{X: at.X + s, Y: at.Y + s}
		p.stream.add(Primitive{Op: OpPath, Node: node, Points: []vg.Point{p0, p1}, Stroke: stroke})
	}
	slash(a)
	slash(b)
}
