package render

import (
	"context"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func testDoc(t *testing.T) (*widget.Node, *dataset.Registry) {
	t.Helper()
	reg := dataset.NewRegistry()
	reg.Set("x", []float64{1, 2, 3, 4, 5})
	reg.Set("y", []float64{10, 12, 9, 15, 11})

	root := widget.NewRoot()
	page := widget.NewNode(widget.Page, "page1")
	graph := widget.NewNode(widget.Graph, "graph1")
	xaxis := widget.NewNode(widget.Axis, "x")
	yaxis := widget.NewNode(widget.Axis, "y")
	xy := widget.NewNode(widget.XY, "curve")

	mustAdd := func(parent, child *widget.Node) {
		t.Helper()
		if err := parent.AddChild(child); err != nil {
			t.Fatalf("AddChild(%v, %v): %v", parent, child, err)
		}
	}
	mustSet := func(n *widget.Node, key widget.Key, v widget.Value) {
		t.Helper()
		if err := n.SetProperty(key, v); err != nil {
			t.Fatalf("SetProperty(%v, %s): %v", n, key, err)
		}
	}

	mustAdd(root, page)
	mustAdd(page, graph)
	mustAdd(graph, xaxis)
	mustAdd(graph, yaxis)
	mustAdd(graph, xy)
	mustSet(xaxis, widget.KeyDirection, widget.String("horizontal"))
	mustSet(yaxis, widget.KeyDirection, widget.String("vertical"))
	mustSet(xy, widget.KeyXData, widget.DatasetRef("x"))
	mustSet(xy, widget.KeyYData, widget.DatasetRef("y"))
	return root, reg
}

var testSize = vg.Point{X: 400, Y: 300}

func TestRenderDeterministic(t *testing.T) {
	root, reg := testDoc(t)
	view := reg.Snapshot()

	s1, w1, err := Render(context.Background(), root, view, testSize, Options{})
	if err != nil {
		t.Fatalf("first render: %v", err)
	}
	s2, w2, err := Render(context.Background(), root, view, testSize, Options{})
	if err != nil {
		t.Fatalf("second render: %v", err)
	}
	if len(w1) != 0 || len(w2) != 0 {
		t.Fatalf("unexpected warnings: %v / %v", w1, w2)
	}
	if !reflect.DeepEqual(s1.Prims, s2.Prims) {
		t.Errorf("renders of identical input differ (%d vs %d primitives)",
			len(s1.Prims), len(s2.Prims))
	}
	if len(s1.Prims) == 0 {
		t.Error("empty primitive stream")
	}
}

func TestRenderClipBalanced(t *testing.T) {
	root, reg := testDoc(t)
	s, _, err := Render(context.Background(), root, reg.Snapshot(), testSize, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if err := s.Balanced(); err != nil {
		t.Errorf("Balanced: %v", err)
	}
	if s.Pages() != 1 {
		t.Errorf("Pages = %d, want 1", s.Pages())
	}
}

func TestRenderMissingDataset(t *testing.T) {
	root, reg := testDoc(t)
	graph := root.Find("page1").Find("graph1")

	bad := widget.NewNode(widget.XY, "broken")
	if err := graph.AddChild(bad); err != nil {
		t.Fatal(err)
	}
	if err := bad.SetProperty(widget.KeyXData, widget.DatasetRef("nope")); err != nil {
		t.Fatal(err)
	}
	if err := bad.SetProperty(widget.KeyYData, widget.DatasetRef("y")); err != nil {
		t.Fatal(err)
	}

	s, warnings, err := Render(context.Background(), root, reg.Snapshot(), testSize, Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	found := false
	for _, w := range warnings {
		if w.Node == bad.ID() {
			found = true
		}
	}
	if !found {
		t.Error("no warning for the element with the missing dataset")
	}
	// The healthy sibling still renders.
	curve := graph.Find("curve")
	sibling := 0
	for _, pr := range s.Prims {
		switch pr.Node {
		case curve.ID():
			sibling++
		case bad.ID():
			t.Errorf("primitive emitted for broken element: %v", pr.Op)
		}
	}
	if sibling == 0 {
		t.Error("healthy sibling emitted no primitives")
	}
}

func TestRenderCancelled(t *testing.T) {
	root, reg := testDoc(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Render(ctx, root, reg.Snapshot(), testSize, Options{})
	if err != ErrCancelled {
		t.Errorf("err = %v, want ErrCancelled", err)
	}
}

func TestLinkedAxes(t *testing.T) {
	reg := dataset.NewRegistry()
	reg.Set("x1", []float64{0, 10})
	reg.Set("y1", []float64{0, 1})
	reg.Set("x2", []float64{50, 100})
	reg.Set("y2", []float64{0, 1})

	root := widget.NewRoot()
	page := widget.NewNode(widget.Page, "p")
	root.AddChild(page)

	var axes []*widget.Node
	for _, names := range [][2]string{{"x1", "y1"}, {"x2", "y2"}} {
		g := widget.NewNode(widget.Graph, "g")
		page.AddChild(g)
		ax := widget.NewNode(widget.Axis, "x")
		ay := widget.NewNode(widget.Axis, "y")
		g.AddChild(ax)
		g.AddChild(ay)
		ax.SetProperty(widget.KeyDirection, widget.String("horizontal"))
		ay.SetProperty(widget.KeyDirection, widget.String("vertical"))
		ax.SetProperty(widget.KeyLink, widget.String("shared-x"))
		xy := widget.NewNode(widget.XY, "c")
		g.AddChild(xy)
		xy.SetProperty(widget.KeyXData, widget.DatasetRef(names[0]))
		xy.SetProperty(widget.KeyYData, widget.DatasetRef(names[1]))
		axes = append(axes, ax)
	}

	scalesOf := func() map[widget.ID]*scale.Result {
		p := &pass{
			view:   reg.Snapshot(),
			sty:    DefaultStyle(12),
			scales: map[widget.ID]*scale.Result{},
			bad:    map[widget.ID]bool{},
		}
		p.scalePage(page)
		return p.scales
	}

	got := scalesOf()
	r1, r2 := got[axes[0].ID()], got[axes[1].ID()]
	if r1 == nil || r2 == nil {
		t.Fatal("linked axes got no scale result")
	}
	if !r1.Interval.Equal(r2.Interval) {
		t.Errorf("linked ranges differ: %v vs %v", r1.Interval, r2.Interval)
	}
	if r1.Min > 0 || r1.Max < 100 {
		t.Errorf("merged range %v does not cover both datasets", r1.Interval)
	}

	// Breaking the link makes the axes independent again.
	if err := axes[1].SetProperty(widget.KeyLink, widget.String("")); err != nil {
		t.Fatal(err)
	}
	got = scalesOf()
	r1, r2 = got[axes[0].ID()], got[axes[1].ID()]
	if r1.Interval.Equal(r2.Interval) {
		t.Error("unlinked axes still share a range")
	}
	if r2.Min > 50 || r2.Max < 100 {
		t.Errorf("unlinked axis range %v does not cover its own data", r2.Interval)
	}
}

func TestLinkedAxesWarnOnce(t *testing.T) {
	reg := dataset.NewRegistry()
	reg.Set("x1", []float64{-1, 10})
	reg.Set("y1", []float64{0, 1})
	reg.Set("x2", []float64{1, 100})
	reg.Set("y2", []float64{0, 1})

	root := widget.NewRoot()
	page := widget.NewNode(widget.Page, "p")
	root.AddChild(page)

	var axes []*widget.Node
	for _, names := range [][2]string{{"x1", "y1"}, {"x2", "y2"}} {
		g := widget.NewNode(widget.Graph, "g")
		page.AddChild(g)
		ax := widget.NewNode(widget.Axis, "x")
		ay := widget.NewNode(widget.Axis, "y")
		g.AddChild(ax)
		g.AddChild(ay)
		ax.SetProperty(widget.KeyDirection, widget.String("horizontal"))
		ay.SetProperty(widget.KeyDirection, widget.String("vertical"))
		ax.SetProperty(widget.KeyScaleKind, widget.String("log"))
		ax.SetProperty(widget.KeyLink, widget.String("shared-x"))
		xy := widget.NewNode(widget.XY, "c")
		g.AddChild(xy)
		xy.SetProperty(widget.KeyXData, widget.DatasetRef(names[0]))
		xy.SetProperty(widget.KeyYData, widget.DatasetRef(names[1]))
		axes = append(axes, ax)
	}

	p := &pass{
		view:   reg.Snapshot(),
		sty:    DefaultStyle(12),
		scales: map[widget.ID]*scale.Result{},
		bad:    map[widget.ID]bool{},
	}
	p.scalePage(page)

	// Both members share one result, but the shared result's warning
	// must show up only once, on the member whose config decided.
	var got []Warning
	for _, w := range p.warnings {
		if _, ok := w.Err.(*scale.NonPositiveError); ok {
			got = append(got, w)
		}
	}
	if len(got) != 1 {
		t.Fatalf("got %d non-positive warnings, want 1: %v", len(got), p.warnings)
	}
	if got[0].Node != axes[0].ID() {
		t.Errorf("warning on node %d, want the deciding axis %d", got[0].Node, axes[0].ID())
	}
	if p.scales[axes[0].ID()] != p.scales[axes[1].ID()] {
		t.Error("linked axes no longer share one result")
	}
}

func TestHitTest(t *testing.T) {
	s := &Stream{}
	s.StartPage()
	s.add(Primitive{Op: OpPath, Node: 7, Data: []float64{3, 4},
		Points: []vg.Point{{X: 0, Y: 0}, {X: 100, Y: 100}},
		Stroke: &Stroke{Width: 1}})

	id, data, ok := HitTest(s, vg.Point{X: 50, Y: 51})
	if !ok || id != 7 {
		t.Fatalf("HitTest = (%v, %v, %v), want node 7", id, data, ok)
	}
	if len(data) != 2 || data[0] != 3 || data[1] != 4 {
		t.Errorf("data = %v, want [3 4]", data)
	}
	if _, _, ok := HitTest(s, vg.Point{X: 50, Y: 80}); ok {
		t.Error("hit far from the path")
	}
}

func TestHitTestZOrderAndClip(t *testing.T) {
	s := &Stream{}
	s.StartPage()
	fill := func(node widget.ID, r vg.Rectangle) Primitive {
		return Primitive{Op: OpPath, Node: node, Points: rectPoints(r),
			Fill: DefaultStyle(12).Background, Closed: true}
	}
	s.add(fill(1, vg.Rectangle{Max: vg.Point{X: 100, Y: 100}}))
	s.ClipPush(2, vg.Rectangle{Max: vg.Point{X: 50, Y: 50}})
	s.add(fill(3, vg.Rectangle{Max: vg.Point{X: 100, Y: 100}}))
	s.ClipPop(2)

	// Inside the clip the later primitive wins.
	if id, _, ok := HitTest(s, vg.Point{X: 25, Y: 25}); !ok || id != 3 {
		t.Errorf("inside clip: id = %v, want 3", id)
	}
	// Outside the clip the clipped primitive is not hittable.
	if id, _, ok := HitTest(s, vg.Point{X: 75, Y: 75}); !ok || id != 1 {
		t.Errorf("outside clip: id = %v, want 1", id)
	}
}

func TestStepPoints(t *testing.T) {
	a := vg.Point{X: 0, Y: 0}
	b := vg.Point{X: 10, Y: 20}
	cases := []struct {
		mode string
		want []vg.Point
	}{
		{"off", nil},
		{"left", []vg.Point{{X: 0, Y: 20}}},
		{"right", []vg.Point{{X: 10, Y: 0}}},
		{"center", []vg.Point{{X: 5, Y: 0}, {X: 5, Y: 20}}},
	}
	for _, c := range cases {
		if got := stepPoints(a, b, c.mode); !reflect.DeepEqual(got, c.want) {
			t.Errorf("stepPoints(%s) = %v, want %v", c.mode, got, c.want)
		}
	}
}

func TestContourLevels(t *testing.T) {
	levels := contourLevels(0, 10, 5)
	if len(levels) == 0 {
		t.Fatal("no levels")
	}
	for i, l := range levels {
		if l <= 0 || l >= 10 {
			t.Errorf("level %v outside the open z range", l)
		}
		if i > 0 && levels[i] <= levels[i-1] {
			t.Errorf("levels not increasing: %v", levels)
		}
	}
}

func TestCellEdges(t *testing.T) {
	edges := cellEdges([]float64{1, 2, 3}, 3)
	want := []float64{0.5, 1.5, 2.5, 3.5}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v, want %v", edges, want)
	}
	for i := range want {
		if math.Abs(edges[i]-want[i]) > 1e-12 {
			t.Fatalf("edges = %v, want %v", edges, want)
		}
	}
}

func TestBoxStats(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5, 6, 7, 8, 100}
	s, ok := computeBoxStats(vals)
	if !ok {
		t.Fatal("no stats")
	}
	if len(s.outliers) != 1 || s.outliers[0] != 100 {
		t.Errorf("outliers = %v, want [100]", s.outliers)
	}
	if s.loWhis != 1 || s.hiWhis != 8 {
		t.Errorf("whiskers = (%v, %v), want (1, 8)", s.loWhis, s.hiWhis)
	}
	if !(s.q1 <= s.med && s.med <= s.q3) {
		t.Errorf("quartiles out of order: %v %v %v", s.q1, s.med, s.q3)
	}
}
