package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Bar, rangeBar, emitBar)
}

// barSlot returns the spacing between bar positions, the width one
// bar may occupy and the offset of this element within its sibling
// group. Bars sharing a parent graph form one group and are laid
// side by side in child order.
func barSlot(n *widget.Node, xs []float64) (slot, width, offset float64) {
	slot = minSpacing(xs)
	if w := n.Float(widget.KeyBarWidth, 0); w > 0 && w < slot {
		slot = w / 0.8
	}
	var group []*widget.Node
	if par := n.Parent(); par != nil {
		for _, c := range par.Children() {
			if c.Kind() == widget.Bar && !c.Bool(widget.KeyHidden, false) {
				group = append(group, c)
			}
		}
	}
	total := len(group)
	if total == 0 {
		total = 1
	}
	idx := 0
	for i, c := range group {
		if c.ID() == n.ID() {
			idx = i
		}
	}
	width = slot * 0.8 / float64(total)
	offset = slot*0.8*(float64(idx)+0.5)/float64(total) - slot*0.4
	return slot, width, offset
}

// minSpacing finds the smallest gap between consecutive positions.
// One single bar gets unit spacing.
func minSpacing(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	for i := 1; i < len(sorted); i++ { // insertion sort, n is small
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	d := math.Inf(1)
	for i := 1; i < len(sorted); i++ {
		if g := sorted[i] - sorted[i-1]; g > 0 && g < d {
			d = g
		}
	}
	if math.IsInf(d, 1) {
		return 1
	}
	return d
}

// barData fetches the bar positions and values. Missing positions
// default to 1..n.
func barData(p *pass, n *widget.Node) (xs, ys []float64, yd *dataset.Dataset, err error) {
	yd, err = p.values(n, widget.KeyYData)
	if err != nil {
		return nil, nil, nil, err
	}
	ys = yd.Values
	if name := n.Dataset(widget.KeyXData); name != "" {
		xd, err := p.view.Get(name)
		if err != nil {
			return nil, nil, nil, err
		}
		xs = xd.Values
	} else {
		xs = make([]float64, len(ys))
		for i := range xs {
			xs[i] = float64(i + 1)
		}
	}
	if len(xs) < len(ys) {
		ys = ys[:len(xs)]
	}
	return xs, ys, yd, nil
}

func rangeBar(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	xs, ys, yd, err := barData(p, n)
	if err != nil {
		return xext, yext, err
	}
	slot, _, _ := barSlot(n, xs)
	posExt, valExt := &xext, &yext
	if n.Bool(widget.KeyHorizontal, false) {
		posExt, valExt = &yext, &xext
	}
	valExt.AddValue(0) // bars grow from the baseline
	for i := range ys {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		posExt.Add(xs[i]-slot/2, xs[i]+slot/2)
		_, lo, hi := yd.Point(i)
		valExt.Add(lo, hi)
	}
	return xext, yext, nil
}

// emitBar draws one bar series as filled rectangles plus optional
// error bars. Sibling bar elements share the slot around each
// position.
func emitBar(p *pass, g *graphCtx, n *widget.Node) {
	xs, ys, yd, err := barData(p, n)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	_, width, offset := barSlot(n, xs)
	horizontal := n.Bool(widget.KeyHorizontal, false)

	stroke := p.elementStroke(n)
	fill := n.Color(widget.KeyFillColor, p.sty.Element.FillColor)

	for i := range ys {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		pos := xs[i] + offset
		var a, b vg.Point
		if horizontal {
			a = g.point(0, pos-width/2)
			b = g.point(ys[i], pos+width/2)
		} else {
			a = g.point(pos-width/2, 0)
			b = g.point(pos+width/2, ys[i])
		}
		if !finitePoint(a) || !finitePoint(b) {
			continue
		}
		data := []float64{xs[i], ys[i]}
		p.stream.add(Primitive{
			Op:   OpPath,
			Node: n.ID(),
			Data: data,
			Points: []vg.Point{
				{X: a.X, Y: a.Y}, {X: b.X, Y: a.Y},
				{X: b.X, Y: b.Y}, {X: a.X, Y: b.Y},
			},
			Stroke: stroke,
			Fill:   fill,
			Closed: true,
		})

		v, lo, hi := yd.Point(i)
		if lo < v || hi > v {
			var e0, e1 vg.Point
			if horizontal {
				e0, e1 = g.point(lo, pos), g.point(hi, pos)
			} else {
				e0, e1 = g.point(pos, lo), g.point(pos, hi)
			}
			if finitePoint(e0) && finitePoint(e1) {
				p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Data: data,
					Points: []vg.Point{e0, e1}, Stroke: stroke})
			}
		}
	}
}
