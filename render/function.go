package render

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Function, rangeFunction, emitFunction)
}

// rangeFunction contributes nothing: a function curve adapts to the
// range the data elements establish instead of forcing one.
func rangeFunction(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	name := n.Str(widget.KeyFunction, "")
	if _, ok := p.sty.Functions[name]; !ok {
		return scale.NewExtents(), scale.NewExtents(),
			fmt.Errorf("render: unknown function %q", name)
	}
	return scale.NewExtents(), scale.NewExtents(), nil
}

// emitFunction samples the named function over the resolved x range
// and draws the curve. Samples falling outside the y range are kept;
// the plot-area clip cuts them off.
func emitFunction(p *pass, g *graphCtx, n *widget.Node) {
	name := n.Str(widget.KeyFunction, "")
	fn, ok := p.sty.Functions[name]
	if !ok {
		p.warn(n.ID(), fmt.Errorf("render: unknown function %q", name))
		return
	}
	samples := n.Int(widget.KeySamples, 200)
	if samples < 2 {
		samples = 2
	}
	stroke := p.elementStroke(n)

	var run []vg.Point
	flush := func() {
		if len(run) > 1 {
			p.stream.add(Primitive{Op: OpPath, Node: n.ID(), Points: run, Stroke: stroke})
		}
		run = nil
	}
	for _, x := range vec.Linspace(g.x.Min, g.x.Max, samples) {
		y := fn(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			flush()
			continue
		}
		pt := g.point(x, y)
		if !finitePoint(pt) {
			flush()
			continue
		}
		run = append(run, pt)
	}
	flush()
}
