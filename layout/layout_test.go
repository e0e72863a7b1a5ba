package layout

import (
	"math"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func testMetrics(t *testing.T) Metrics {
	t.Helper()
	font, err := vg.MakeFont("Helvetica", 10)
	if err != nil {
		t.Fatal(err)
	}
	title, err := vg.MakeFont("Helvetica", 14)
	if err != nil {
		t.Fatal(err)
	}
	return Metrics{
		TickFont:   font,
		LabelFont:  font,
		TitleFont:  title,
		TickLength: 4,
		Pad:        4,
	}
}

func noScales(widget.ID) *scale.Result { return nil }

func mustAdd(t *testing.T, parent, child *widget.Node) {
	t.Helper()
	if err := parent.AddChild(child); err != nil {
		t.Fatal(err)
	}
}

func contains(outer, inner vg.Rectangle) bool {
	const eps = 1e-9
	return float64(inner.Min.X) >= float64(outer.Min.X)-eps &&
		float64(inner.Min.Y) >= float64(outer.Min.Y)-eps &&
		float64(inner.Max.X) <= float64(outer.Max.X)+eps &&
		float64(inner.Max.Y) <= float64(outer.Max.Y)+eps
}

func overlap(a, b vg.Rectangle) bool {
	return a.Min.X < b.Max.X && b.Min.X < a.Max.X &&
		a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
}

func TestPageFillsCanvas(t *testing.T) {
	page := widget.NewNode(widget.Page, "p")
	res := Compute(page, vg.Point{X: 400, Y: 300}, testMetrics(t), noScales)
	r := res.Rects[page.ID()]
	if r.Min.X != 0 || r.Min.Y != 0 || r.Max.X != 400 || r.Max.Y != 300 {
		t.Errorf("page rect = %v", r)
	}
}

func TestGridPartition(t *testing.T) {
	page := widget.NewNode(widget.Page, "p")
	grid := widget.NewNode(widget.Grid, "g")
	mustAdd(t, page, grid)
	if err := grid.SetProperty(widget.KeyColumns, widget.Int(2)); err != nil {
		t.Fatal(err)
	}
	var graphs []*widget.Node
	for i := 0; i < 4; i++ {
		g := widget.NewNode(widget.Graph, "")
		graphs = append(graphs, g)
		mustAdd(t, grid, g)
	}

	res := Compute(page, vg.Point{X: 400, Y: 400}, testMetrics(t), noScales)
	outer := res.Rects[grid.ID()]
	for i, g := range graphs {
		r := res.Rects[g.ID()]
		if !contains(outer, r) {
			t.Errorf("cell %d = %v escapes grid %v", i, r, outer)
		}
		for j := 0; j < i; j++ {
			if overlap(r, res.Rects[graphs[j].ID()]) {
				t.Errorf("cells %d and %d overlap", i, j)
			}
		}
	}
	// Row-major, top row first: child 0 sits above child 2 and left
	// of child 1.
	r0 := res.Rects[graphs[0].ID()]
	if r1 := res.Rects[graphs[1].ID()]; r0.Min.X >= r1.Min.X {
		t.Error("child 0 must be left of child 1")
	}
	if r2 := res.Rects[graphs[2].ID()]; r0.Min.Y <= r2.Min.Y {
		t.Error("child 0 must be above child 2")
	}
}

func TestGridRatios(t *testing.T) {
	page := widget.NewNode(widget.Page, "p")
	grid := widget.NewNode(widget.Grid, "g")
	mustAdd(t, page, grid)
	if err := grid.SetProperty(widget.KeyColumns, widget.Int(2)); err != nil {
		t.Fatal(err)
	}
	if err := grid.SetProperty(widget.KeyColRatios, widget.Floats(3, 1)); err != nil {
		t.Fatal(err)
	}
	a := widget.NewNode(widget.Graph, "a")
	b := widget.NewNode(widget.Graph, "b")
	mustAdd(t, grid, a)
	mustAdd(t, grid, b)

	m := testMetrics(t)
	m.Pad = 0
	res := Compute(page, vg.Point{X: 400, Y: 100}, m, noScales)
	wa := res.Rects[a.ID()].Max.X - res.Rects[a.ID()].Min.X
	wb := res.Rects[b.ID()].Max.X - res.Rects[b.ID()].Min.X
	if math.Abs(float64(wa)-300) > 1e-9 || math.Abs(float64(wb)-100) > 1e-9 {
		t.Errorf("cell widths = %v, %v, want 300, 100", wa, wb)
	}
}

func graphWithAxes(t *testing.T) (page, graph, x, y *widget.Node) {
	page = widget.NewNode(widget.Page, "p")
	graph = widget.NewNode(widget.Graph, "g")
	x = widget.NewNode(widget.Axis, "x")
	y = widget.NewNode(widget.Axis, "y")
	mustAdd(t, page, graph)
	mustAdd(t, graph, x)
	mustAdd(t, graph, y)
	if err := x.SetProperty(widget.KeyDirection, widget.String("horizontal")); err != nil {
		t.Fatal(err)
	}
	if err := y.SetProperty(widget.KeyDirection, widget.String("vertical")); err != nil {
		t.Fatal(err)
	}
	return page, graph, x, y
}

func TestGraphMarginsFromTickLabels(t *testing.T) {
	page, graph, x, y := graphWithAxes(t)
	_ = x

	short := scale.Compute(scale.DefaultConfig(), extentsOf(0, 1))
	longr := scale.Compute(scale.Config{
		Min: math.NaN(), Max: math.NaN(), MarginFrac: 0.05, TickTarget: 6,
	}, extentsOf(123456.7, 123456.9))

	m := testMetrics(t)
	narrow := Compute(page, vg.Point{X: 400, Y: 300}, m, func(id widget.ID) *scale.Result {
		return short
	})
	wide := Compute(page, vg.Point{X: 400, Y: 300}, m, func(id widget.ID) *scale.Result {
		if id == y.ID() {
			return longr
		}
		return short
	})

	na := narrow.PlotArea[graph.ID()]
	wa := wide.PlotArea[graph.ID()]
	if !(wa.Min.X > na.Min.X) {
		t.Errorf("wider tick labels must grow the left margin: %v vs %v",
			wa.Min.X, na.Min.X)
	}
	if !contains(narrow.Rects[graph.ID()], na) {
		t.Error("plot area must lie inside the graph rectangle")
	}
}

func extentsOf(vals ...float64) scale.Extents {
	e := scale.NewExtents()
	for _, v := range vals {
		e.AddValue(v)
	}
	return e
}

func TestOverflowClamped(t *testing.T) {
	page, graph, _, _ := graphWithAxes(t)
	r := scale.Compute(scale.DefaultConfig(), extentsOf(0, 1))

	res := Compute(page, vg.Point{X: 30, Y: 20}, testMetrics(t), func(widget.ID) *scale.Result {
		return r
	})
	if len(res.Warnings) == 0 {
		t.Fatal("want an overflow warning on a tiny canvas")
	}
	var ov *OverflowError
	found := false
	for _, w := range res.Warnings {
		if e, ok := w.(*OverflowError); ok {
			ov, found = e, true
		}
	}
	if !found {
		t.Fatalf("warnings %v contain no OverflowError", res.Warnings)
	}
	if ov.Node != graph.ID() {
		t.Errorf("overflow reported for node %d, want %d", ov.Node, graph.ID())
	}
	area := res.PlotArea[graph.ID()]
	if area.Max.X <= area.Min.X || area.Max.Y <= area.Min.Y {
		t.Error("clamped plot area must stay non-empty")
	}
}

func TestNestedGraph(t *testing.T) {
	page, graph, _, _ := graphWithAxes(t)
	inner := widget.NewNode(widget.Graph, "inset")
	mustAdd(t, graph, inner)
	for k, v := range map[widget.Key]float64{
		widget.KeyXPos: 0.5, widget.KeyYPos: 0.5,
		widget.KeyWidth: 0.4, widget.KeyHeight: 0.4,
	} {
		if err := inner.SetProperty(k, widget.Float(v)); err != nil {
			t.Fatal(err)
		}
	}
	r := scale.Compute(scale.DefaultConfig(), extentsOf(0, 1))
	res := Compute(page, vg.Point{X: 400, Y: 300}, testMetrics(t), func(widget.ID) *scale.Result {
		return r
	})
	outer := res.PlotArea[graph.ID()]
	in := res.Rects[inner.ID()]
	if !contains(outer, in) {
		t.Errorf("nested graph %v escapes parent plot area %v", in, outer)
	}
	if ia := res.PlotArea[inner.ID()]; !contains(in, ia) {
		t.Errorf("nested plot area %v escapes its rectangle %v", ia, in)
	}
}

func TestPageStacksSiblings(t *testing.T) {
	page := widget.NewNode(widget.Page, "p")
	a := widget.NewNode(widget.Graph, "a")
	b := widget.NewNode(widget.Graph, "b")
	mustAdd(t, page, a)
	mustAdd(t, page, b)

	res := Compute(page, vg.Point{X: 400, Y: 300}, testMetrics(t), noScales)
	ra, rb := res.Rects[a.ID()], res.Rects[b.ID()]
	if overlap(ra, rb) {
		t.Errorf("page siblings overlap: %v and %v", ra, rb)
	}
	if ra.Min.Y <= rb.Min.Y {
		t.Error("first child must sit above the second")
	}
	if ra.Max.Y != 300 || rb.Min.Y != 0 {
		t.Errorf("stack does not cover the page: %v, %v", ra, rb)
	}
}

func TestPageOverlayChildSpansPage(t *testing.T) {
	page := widget.NewNode(widget.Page, "p")
	a := widget.NewNode(widget.Graph, "a")
	over := widget.NewNode(widget.Graph, "over")
	mustAdd(t, page, a)
	mustAdd(t, page, over)
	if err := over.SetProperty(widget.KeyOverlay, widget.Bool(true)); err != nil {
		t.Fatal(err)
	}

	res := Compute(page, vg.Point{X: 400, Y: 300}, testMetrics(t), noScales)
	if r := res.Rects[a.ID()]; r != res.Rects[page.ID()] {
		t.Errorf("single stacked child = %v, want full page", r)
	}
	if r := res.Rects[over.ID()]; r != res.Rects[page.ID()] {
		t.Errorf("overlay child = %v, want full page", r)
	}
}
