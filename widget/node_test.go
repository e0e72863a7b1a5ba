package widget

import (
	"testing"
)

func buildTree(t *testing.T) (root, page, graph, axis *Node) {
	t.Helper()
	root = NewRoot()
	page = NewNode(Page, "page1")
	graph = NewNode(Graph, "graph1")
	axis = NewNode(Axis, "x")
	if err := root.AddChild(page); err != nil {
		t.Fatal(err)
	}
	if err := page.AddChild(graph); err != nil {
		t.Fatal(err)
	}
	if err := graph.AddChild(axis); err != nil {
		t.Fatal(err)
	}
	return root, page, graph, axis
}

func TestAddChildRules(t *testing.T) {
	root := NewRoot()
	if err := root.AddChild(NewNode(Axis, "x")); err == nil {
		t.Error("axis directly under root must be rejected")
	}
	page := NewNode(Page, "p")
	if err := root.AddChild(page); err != nil {
		t.Fatal(err)
	}
	if err := root.AddChild(page); err == nil {
		t.Error("re-adding an owned child must be rejected")
	}
}

func TestPropertyValidation(t *testing.T) {
	axis := NewNode(Axis, "x")

	if err := axis.SetProperty(KeyMin, Float(3)); err != nil {
		t.Fatal(err)
	}
	if err := axis.SetProperty(KeyMin, String("three")); err == nil {
		t.Error("wrong type must fail the edit")
	}
	if err := axis.SetProperty(Key("bogus"), Float(1)); err == nil {
		t.Error("unknown key must fail the edit")
	}
	if got := axis.Float(KeyMin, 0); got != 3 {
		t.Errorf("KeyMin = %v after failed edits, want 3", got)
	}
}

func TestInvalidation(t *testing.T) {
	root, page, graph, axis := buildTree(t)

	v0root, v0page := root.TreeVersion(), page.TreeVersion()
	if err := axis.SetProperty(KeyMax, Float(10)); err != nil {
		t.Fatal(err)
	}
	if root.TreeVersion() <= v0root || page.TreeVersion() <= v0page {
		t.Error("property edit must invalidate all ancestors")
	}

	v1 := root.TreeVersion()
	if err := graph.RemoveChild(axis); err != nil {
		t.Fatal(err)
	}
	if root.TreeVersion() <= v1 {
		t.Error("removing a node must invalidate ancestors")
	}
	if axis.Parent() != nil {
		t.Error("removed node must be detached")
	}
}

func TestReorder(t *testing.T) {
	graph := NewNode(Graph, "g")
	a := NewNode(XY, "a")
	b := NewNode(XY, "b")
	c := NewNode(XY, "c")
	for _, n := range []*Node{a, b, c} {
		if err := graph.AddChild(n); err != nil {
			t.Fatal(err)
		}
	}

	if err := graph.Reorder(c, 0); err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "a", "b"}
	for i, ch := range graph.Children() {
		if ch.Name() != want[i] {
			t.Fatalf("child %d = %q, want %q", i, ch.Name(), want[i])
		}
	}

	if err := graph.Reorder(c, 99); err != nil {
		t.Fatal(err)
	}
	if last := graph.Children()[2]; last.Name() != "c" {
		t.Errorf("out-of-range index must clamp, last child = %q", last.Name())
	}
}

func TestCloneIsolation(t *testing.T) {
	root, _, _, axis := buildTree(t)
	if err := axis.SetProperty(KeyMin, Float(1)); err != nil {
		t.Fatal(err)
	}

	snap := root.Clone()
	if err := axis.SetProperty(KeyMin, Float(42)); err != nil {
		t.Fatal(err)
	}

	snapAxis := snap.Find("x")
	if snapAxis == nil {
		t.Fatal("clone lost a node")
	}
	if got := snapAxis.Float(KeyMin, 0); got != 1 {
		t.Errorf("clone min = %v after original edit, want 1", got)
	}
	if snapAxis.ID() != axis.ID() {
		t.Error("clone must keep node IDs")
	}
}

func TestDatasetRefs(t *testing.T) {
	graph := NewNode(Graph, "g")
	xy := NewNode(XY, "xy")
	if err := graph.AddChild(xy); err != nil {
		t.Fatal(err)
	}
	if err := xy.SetProperty(KeyXData, DatasetRef("x")); err != nil {
		t.Fatal(err)
	}
	if err := xy.SetProperty(KeyYData, DatasetRef("y")); err != nil {
		t.Fatal(err)
	}
	got := graph.DatasetRefs()
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("DatasetRefs() = %v, want [x y]", got)
	}
}

func TestParseColor(t *testing.T) {
	for _, tc := range []struct {
		in   string
		ok   bool
		r, g, b uint8
	}{
		{"red", true, 255, 0, 0},
		{"#00ff00", true, 0, 255, 0},
		{"#01020304", true, 1, 2, 3},
		{"notacolor", false, 0, 0, 0},
	} {
		v, err := ParseColor(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseColor(%q) error = %v", tc.in, err)
			continue
		}
		if !tc.ok {
			continue
		}
		c := v.Color()
		if c.R != tc.r || c.G != tc.g || c.B != tc.b {
			t.Errorf("ParseColor(%q) = %v", tc.in, c)
		}
	}
}
