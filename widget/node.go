package widget

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"sync/atomic"
)

// ID identifies a node for the lifetime of a process. IDs survive
// cloning, so a snapshot's nodes can be matched back to the document's.
type ID int64

var lastID atomic.Int64

// A Node is one widget in the document tree.
type Node struct {
	id   ID
	kind Kind
	name string

	props    map[Key]Value
	children []*Node
	parent   *Node

	// propVersion counts edits to this node's own properties.
	// treeVersion counts any change in the subtree below (including
	// property edits); it is bumped on the node and all ancestors so
	// cached layout and scale results keyed by it invalidate.
	propVersion int64
	treeVersion int64
}

// NewNode creates a detached node.
func NewNode(kind Kind, name string) *Node {
	return &Node{
		id:    ID(lastID.Add(1)),
		kind:  kind,
		name:  name,
		props: make(map[Key]Value),
	}
}

// NewRoot creates the document root node.
func NewRoot() *Node { return NewNode(Root, "/") }

func (n *Node) ID() ID             { return n.id }
func (n *Node) Kind() Kind         { return n.kind }
func (n *Node) Name() string       { return n.name }
func (n *Node) Parent() *Node      { return n.parent }
func (n *Node) PropVersion() int64 { return n.propVersion }
func (n *Node) TreeVersion() int64 { return n.treeVersion }

// Children returns the node's children in z-order. The slice is the
// node's own; callers must not modify it.
func (n *Node) Children() []*Node { return n.children }

func (n *Node) String() string {
	return fmt.Sprintf("%s %q (%d children)", n.kind, n.name, len(n.children))
}

// bump invalidates cached results for n and all ancestors.
func (n *Node) bump() {
	for a := n; a != nil; a = a.parent {
		a.treeVersion++
	}
}

// SetProperty validates and stores a property value, invalidating
// cached results up the tree. An invalid key or type fails the edit
// and leaves the node unchanged.
func (n *Node) SetProperty(key Key, v Value) error {
	if err := validate(n.kind, key, v); err != nil {
		return err
	}
	n.props[key] = v
	n.propVersion++
	n.bump()
	return nil
}

// Property returns the stored value for key, if any.
func (n *Node) Property(key Key) (Value, bool) {
	v, ok := n.props[key]
	return v, ok
}

// Typed accessors with defaults for absent properties.

func (n *Node) Float(key Key, def float64) float64 {
	if v, ok := n.props[key]; ok && v.typ == FloatT {
		return v.f
	}
	return def
}

func (n *Node) Int(key Key, def int) int {
	if v, ok := n.props[key]; ok && v.typ == IntT {
		return v.i
	}
	return def
}

func (n *Node) Bool(key Key, def bool) bool {
	if v, ok := n.props[key]; ok && v.typ == BoolT {
		return v.b
	}
	return def
}

func (n *Node) Str(key Key, def string) string {
	if v, ok := n.props[key]; ok && (v.typ == StringT || v.typ == DatasetT) {
		return v.s
	}
	return def
}

func (n *Node) Color(key Key, def color.RGBA) color.RGBA {
	if v, ok := n.props[key]; ok && v.typ == ColorT {
		return v.c
	}
	return def
}

func (n *Node) FloatsOr(key Key, def []float64) []float64 {
	if v, ok := n.props[key]; ok && v.typ == FloatsT {
		return v.fs
	}
	return def
}

// Dataset returns the dataset reference stored under key, or "".
func (n *Node) Dataset(key Key) string {
	if v, ok := n.props[key]; ok && v.typ == DatasetT {
		return v.s
	}
	return ""
}

// FloatOrNaN returns the float property or NaN when unset, the
// "unset means auto" convention used for axis min/max.
func (n *Node) FloatOrNaN(key Key) float64 {
	if v, ok := n.props[key]; ok && v.typ == FloatT {
		return v.f
	}
	return math.NaN()
}

// A TreeError reports a structurally invalid tree edit.
type TreeError struct {
	Op     string
	Parent Kind
	Child  Kind
	Reason string
}

func (e *TreeError) Error() string {
	return fmt.Sprintf("widget: %s: %s under %s: %s", e.Op, e.Child, e.Parent, e.Reason)
}

// AddChild appends child to n. The child must be detached and its
// kind allowed under n's kind.
func (n *Node) AddChild(child *Node) error {
	if child.parent != nil {
		return &TreeError{Op: "add", Parent: n.kind, Child: child.kind, Reason: "child already has a parent"}
	}
	if !mayContain(n.kind, child.kind) {
		return &TreeError{Op: "add", Parent: n.kind, Child: child.kind, Reason: "kind not allowed here"}
	}
	child.parent = n
	n.children = append(n.children, child)
	n.bump()
	return nil
}

// RemoveChild detaches child from n. The subtree below child stays
// intact but no longer belongs to the document; cached results for n
// and its ancestors are invalidated.
func (n *Node) RemoveChild(child *Node) error {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			n.bump()
			return nil
		}
	}
	return &TreeError{Op: "remove", Parent: n.kind, Child: child.kind, Reason: "not a child of this node"}
}

// Reorder moves child to position idx among n's children, clamping
// idx into range. Order is z-order, so this is the raise/lower edit.
func (n *Node) Reorder(child *Node, idx int) error {
	from := -1
	for i, c := range n.children {
		if c == child {
			from = i
			break
		}
	}
	if from < 0 {
		return &TreeError{Op: "reorder", Parent: n.kind, Child: child.kind, Reason: "not a child of this node"}
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(n.children) {
		idx = len(n.children) - 1
	}
	n.children = append(n.children[:from], n.children[from+1:]...)
	rest := append([]*Node(nil), n.children[idx:]...)
	n.children = append(append(n.children[:idx], child), rest...)
	n.bump()
	return nil
}

// Clone returns a deep copy of the subtree rooted at n, keeping node
// IDs and versions. Clones are what render snapshots are made of: the
// document can keep mutating while a render walks the clone.
func (n *Node) Clone() *Node {
	c := &Node{
		id:          n.id,
		kind:        n.kind,
		name:        n.name,
		props:       make(map[Key]Value, len(n.props)),
		propVersion: n.propVersion,
		treeVersion: n.treeVersion,
	}
	for k, v := range n.props {
		if v.typ == FloatsT {
			v.fs = append([]float64(nil), v.fs...)
		}
		c.props[k] = v
	}
	c.children = make([]*Node, len(n.children))
	for i, ch := range n.children {
		cc := ch.Clone()
		cc.parent = c
		c.children[i] = cc
	}
	return c
}

// Walk visits the subtree rooted at n depth first in z-order.
// Returning false from f prunes the subtree below the node.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(f)
	}
}

// Find returns the first node in the subtree with the given name, or
// nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(m *Node) bool {
		if found == nil && m.name == name {
			found = m
		}
		return found == nil
	})
	return found
}

// ByID returns the node with the given ID in the subtree, or nil.
func (n *Node) ByID(id ID) *Node {
	var found *Node
	n.Walk(func(m *Node) bool {
		if found == nil && m.id == id {
			found = m
		}
		return found == nil
	})
	return found
}

// DatasetRefs returns the names of all datasets referenced anywhere
// in the subtree, sorted and without duplicates.
func (n *Node) DatasetRefs() []string {
	seen := map[string]bool{}
	n.Walk(func(m *Node) bool {
		for _, v := range m.props {
			if v.typ == DatasetT && v.s != "" {
				seen[v.s] = true
			}
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for s := range seen {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}
