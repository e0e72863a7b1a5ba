package render

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/layout"
	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

// Stage names the pipeline phases a render request moves through.
type Stage int

const (
	StageScaling Stage = iota
	StageLayingOut
	StageEmitting
)

func (s Stage) String() string {
	return []string{"scaling", "laying-out", "emitting"}[s]
}

// ErrCancelled is returned when the context is cancelled at a stage
// or page boundary. No partial stream is delivered.
var ErrCancelled = errors.New("render: cancelled")

// A Warning is a recoverable problem attached to the render result
// instead of aborting the pipeline.
type Warning struct {
	Node widget.ID
	Err  error
}

func (w Warning) Error() string {
	return fmt.Sprintf("node %d: %s", w.Node, w.Err)
}

// Options configures one render pass.
type Options struct {
	// Style defaults to DefaultStyle(12).
	Style *Style

	// OnStage, when set, observes stage transitions.
	OnStage func(Stage)
}

// pass carries the state of one render request.
type pass struct {
	view     *dataset.View
	sty      *Style
	stream   *Stream
	warnings []Warning

	// scales maps axis node ID to its computed result; lay holds the
	// per-page layout results keyed by page node ID.
	scales map[widget.ID]*scale.Result
	lay    map[widget.ID]*layout.Result

	// bad marks nodes whose subtree failed structurally (missing
	// dataset); they are skipped during emission but their siblings
	// still render.
	bad map[widget.ID]bool

	fonts map[FontSpec]vg.Font
}

func (p *pass) warn(node widget.ID, err error) {
	p.warnings = append(p.warnings, Warning{Node: node, Err: err})
}

func (p *pass) font(name string, size vg.Length) (vg.Font, error) {
	spec := FontSpec{Name: name, Size: size}
	if f, ok := p.fonts[spec]; ok {
		return f, nil
	}
	f, err := vg.MakeFont(name, size)
	if err == nil {
		p.fonts[spec] = f
	}
	return f, err
}

// Render walks the snapshot in z-order and produces the primitive
// stream for a canvas of the given size. Recoverable problems come
// back as warnings; the only errors are cancellation and a broken
// style (unknown base font).
func Render(ctx context.Context, root *widget.Node, view *dataset.View, size vg.Point, opt Options) (*Stream, []Warning, error) {
	sty := opt.Style
	if sty == nil {
		sty = DefaultStyle(12)
	}
	metrics, err := sty.Metrics()
	if err != nil {
		return nil, nil, err
	}

	p := &pass{
		view:   view,
		sty:    sty,
		stream: &Stream{},
		scales: make(map[widget.ID]*scale.Result),
		lay:    make(map[widget.ID]*layout.Result),
		bad:    make(map[widget.ID]bool),
		fonts:  make(map[FontSpec]vg.Font),
	}

	stage := func(s Stage) {
		if opt.OnStage != nil {
			opt.OnStage(s)
		}
	}

	pages := pageNodes(root)

	// Scaling: resolve every axis range, linked axes merged within
	// the same pass so no later stage can observe one side updated
	// without the other.
	stage(StageScaling)
	for _, page := range pages {
		if ctx.Err() != nil {
			return nil, nil, ErrCancelled
		}
		p.scalePage(page)
	}

	stage(StageLayingOut)
	for _, page := range pages {
		if ctx.Err() != nil {
			return nil, nil, ErrCancelled
		}
		res := layout.Compute(page, size, metrics, func(id widget.ID) *scale.Result {
			return p.scales[id]
		})
		for _, w := range res.Warnings {
			p.warn(page.ID(), w)
		}
		p.lay[page.ID()] = res
	}

	stage(StageEmitting)
	for _, page := range pages {
		if ctx.Err() != nil {
			return nil, nil, ErrCancelled
		}
		p.emitPage(page, size)
	}

	if err := p.stream.Balanced(); err != nil {
		return nil, p.warnings, err
	}
	return p.stream, p.warnings, nil
}

// pageNodes returns the renderable pages of the document in order. A
// page handed in directly renders alone.
func pageNodes(root *widget.Node) []*widget.Node {
	if root.Kind() == widget.Page {
		return []*widget.Node{root}
	}
	var pages []*widget.Node
	for _, c := range root.Children() {
		if c.Kind() == widget.Page && !c.Bool(widget.KeyHidden, false) {
			pages = append(pages, c)
		}
	}
	return pages
}

// ----------------------------------------------------------------------------
// Scaling stage

// axisConfig builds the scale configuration from an axis node's
// properties.
func axisConfig(n *widget.Node) scale.Config {
	cfg := scale.DefaultConfig()
	cfg.Kind = scale.KindByName(n.Str(widget.KeyScaleKind, "linear"))
	cfg.Min = n.FloatOrNaN(widget.KeyMin)
	cfg.Max = n.FloatOrNaN(widget.KeyMax)
	if t := n.Int(widget.KeyTickTarget, 0); t > 0 {
		cfg.TickTarget = t
	}
	if cfg.Kind == scale.Functional {
		cfg.Fn = scale.FuncScaleByName(n.Str(widget.KeyScaleFunc, ""))
	}
	pairs := n.FloatsOr(widget.KeyBreaks, nil)
	comps := n.FloatsOr(widget.KeyBreakComp, nil)
	for i := 0; i+1 < len(pairs); i += 2 {
		b := scale.Break{Lo: pairs[i], Hi: pairs[i+1], Compression: scale.DefaultCompression}
		if j := i / 2; j < len(comps) && comps[j] > 0 {
			b.Compression = comps[j]
		}
		cfg.Breaks = append(cfg.Breaks, b)
	}
	return cfg
}

// scalePage computes the scale result of every axis on the page.
// Axes sharing a link name form one group: their extents are merged
// and all members get the identical result, atomically within this
// pass.
func (p *pass) scalePage(page *widget.Node) {
	type axisInfo struct {
		node *widget.Node
		ext  scale.Extents
	}
	var axes []*axisInfo

	// Collect extents graph by graph.
	page.Walk(func(n *widget.Node) bool {
		if n.Kind() != widget.Graph {
			return true
		}
		xext, yext := p.graphExtents(n)
		for _, c := range n.Children() {
			if c.Kind() != widget.Axis {
				continue
			}
			ai := &axisInfo{node: c, ext: scale.NewExtents()}
			if c.Str(widget.KeyDirection, "horizontal") == "vertical" {
				ai.ext.Merge(yext)
			} else {
				ai.ext.Merge(xext)
			}
			axes = append(axes, ai)
		}
		return true
	})

	// Group linked axes by name. Group order follows first
	// appearance in the tree walk, so the pass stays deterministic.
	groups := make(map[string][]*axisInfo)
	var groupOrder []string
	for _, ai := range axes {
		link := ai.node.Str(widget.KeyLink, "")
		if link == "" {
			r := scale.Compute(axisConfig(ai.node), ai.ext)
			p.adoptScale(ai.node, r)
			continue
		}
		if _, ok := groups[link]; !ok {
			groupOrder = append(groupOrder, link)
		}
		groups[link] = append(groups[link], ai)
	}
	for _, link := range groupOrder {
		members := groups[link]
		merged := scale.NewExtents()
		for _, ai := range members {
			merged.Merge(ai.ext)
		}
		// The first member's configuration decides for the group. Its
		// warnings attach to that member only; the other members share
		// the result without repeating them.
		r := scale.Compute(axisConfig(members[0].node), merged)
		p.adoptScale(members[0].node, r)
		for _, ai := range members[1:] {
			p.scales[ai.node.ID()] = r
		}
	}
}

func (p *pass) adoptScale(axis *widget.Node, r *scale.Result) {
	p.scales[axis.ID()] = r
	for _, w := range r.Warnings {
		p.warn(axis.ID(), w)
	}
}

// graphExtents accumulates the error-inclusive x and y extents over
// all plot elements of the graph. A plot element whose dataset is
// missing is marked bad and skipped; its siblings still contribute.
func (p *pass) graphExtents(graph *widget.Node) (xext, yext scale.Extents) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	for _, c := range graph.Children() {
		if !c.Kind().IsPlotElement() || c.Bool(widget.KeyHidden, false) {
			continue
		}
		rng := rangers[c.Kind()]
		if rng == nil {
			continue
		}
		cx, cy, err := rng(p, c)
		if err != nil {
			p.bad[c.ID()] = true
			p.warn(c.ID(), err)
			continue
		}
		xext.Merge(cx)
		yext.Merge(cy)
	}
	return xext, yext
}

// values fetches a numeric dataset referenced by a node property.
func (p *pass) values(n *widget.Node, key widget.Key) (*dataset.Dataset, error) {
	name := n.Dataset(key)
	if name == "" {
		return nil, fmt.Errorf("render: %s of %s %q not set", key, n.Kind(), n.Name())
	}
	return p.view.Get(name)
}

// ----------------------------------------------------------------------------
// Emitting stage

// graphCtx is the drawing context of one graph: its plot area and
// the resolved x/y scales.
type graphCtx struct {
	node *widget.Node
	area vg.Rectangle
	x, y *scale.Result
}

// point maps a data coordinate into the plot area.
func (g *graphCtx) point(x, y float64) vg.Point {
	w := g.area.Max.X - g.area.Min.X
	h := g.area.Max.Y - g.area.Min.Y
	return vg.Point{
		X: g.area.Min.X + vg.Length(g.x.Norm(x))*w,
		Y: g.area.Min.Y + vg.Length(g.y.Norm(y))*h,
	}
}

// finitePoint reports whether the mapped point is drawable.
func finitePoint(pt vg.Point) bool {
	return !math.IsNaN(float64(pt.X)) && !math.IsInf(float64(pt.X), 0) &&
		!math.IsNaN(float64(pt.Y)) && !math.IsInf(float64(pt.Y), 0)
}

// unitScale is the fallback for graphs without an axis in some
// direction.
func unitScale() *scale.Result {
	cfg := scale.DefaultConfig()
	cfg.Min, cfg.Max = 0, 1
	return scale.Compute(cfg, scale.NewExtents())
}

// graphContext resolves the axes of a graph. The first horizontal
// axis is the x scale, the first vertical one the y scale.
func (p *pass) graphContext(graph *widget.Node, area vg.Rectangle) *graphCtx {
	g := &graphCtx{node: graph, area: area}
	for _, c := range graph.Children() {
		if c.Kind() != widget.Axis {
			continue
		}
		if c.Str(widget.KeyDirection, "horizontal") == "vertical" {
			if g.y == nil {
				g.y = p.scales[c.ID()]
			}
		} else if g.x == nil {
			g.x = p.scales[c.ID()]
		}
	}
	if g.x == nil {
		g.x = unitScale()
	}
	if g.y == nil {
		g.y = unitScale()
	}
	return g
}

// emitPage renders one page into the stream.
func (p *pass) emitPage(page *widget.Node, size vg.Point) {
	p.stream.StartPage()
	lay := p.lay[page.ID()]

	// Page background.
	rect := lay.Rects[page.ID()]
	p.stream.add(Primitive{
		Op:     OpPath,
		Node:   page.ID(),
		Points: rectPoints(rect),
		Fill:   p.sty.Background,
		Closed: true,
	})

	for _, c := range page.Children() {
		p.emitNode(c, lay)
	}
}

// emitNode dispatches one widget during the page walk.
func (p *pass) emitNode(n *widget.Node, lay *layout.Result) {
	if n.Bool(widget.KeyHidden, false) || p.bad[n.ID()] {
		return
	}
	switch n.Kind() {
	case widget.Grid:
		for _, c := range n.Children() {
			p.emitNode(c, lay)
		}
	case widget.Graph:
		p.emitGraph(n, lay)
	case widget.Label:
		p.emitLabel(n, lay.Rects[n.ID()])
	case widget.Shape:
		p.emitShape(n, lay.Rects[n.ID()])
	}
}

// emitGraph draws background, title and axes, then the plot elements
// clipped to the plot area, then nested graphs and annotations.
func (p *pass) emitGraph(n *widget.Node, lay *layout.Result) {
	rect := lay.Rects[n.ID()]
	area := lay.PlotArea[n.ID()]
	g := p.graphContext(n, area)

	if bg, ok := n.Property(widget.KeyFillColor); ok {
		p.stream.add(Primitive{
			Op:     OpPath,
			Node:   n.ID(),
			Points: rectPoints(area),
			Fill:   bg.Color(),
			Closed: true,
		})
	}
	if title := n.Str(widget.KeyTitle, ""); title != "" {
		p.emitText(n.ID(), title,
			vg.Point{X: (rect.Min.X + rect.Max.X) / 2, Y: rect.Max.Y},
			0, alignCenter, alignRight,
			FontSpec{Name: p.sty.BaseFont, Size: p.sty.Title.Size},
			p.sty.Title.Color, nil)
	}

	for _, c := range n.Children() {
		if c.Kind() == widget.Axis && !c.Bool(widget.KeyHidden, false) {
			p.emitAxis(c, g)
		}
	}

	p.stream.ClipPush(n.ID(), area)
	for _, c := range n.Children() {
		if !c.Kind().IsPlotElement() || c.Bool(widget.KeyHidden, false) || p.bad[c.ID()] {
			continue
		}
		if em := emitters[c.Kind()]; em != nil {
			em(p, g, c)
		}
	}
	p.stream.ClipPop(n.ID())

	for _, c := range n.Children() {
		if c.Bool(widget.KeyHidden, false) {
			continue
		}
		switch c.Kind() {
		case widget.Graph:
			p.emitGraph(c, lay)
		case widget.Label:
			p.emitLabel(c, lay.Rects[c.ID()])
		case widget.Shape:
			p.emitShape(c, lay.Rects[c.ID()])
		}
	}
}

// rectPoints returns the corner points of r, counterclockwise from
// the lower left.
func rectPoints(r vg.Rectangle) []vg.Point {
	return []vg.Point{
		{X: r.Min.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Min.Y},
		{X: r.Max.X, Y: r.Max.Y},
		{X: r.Min.X, Y: r.Max.Y},
	}
}

// elementStroke builds the stroke for a plot element from its style
// properties.
func (p *pass) elementStroke(n *widget.Node) *Stroke {
	return &Stroke{
		Color:  n.Color(widget.KeyColor, p.sty.Element.Color),
		Width:  vg.Length(n.Float(widget.KeyLineWidth, float64(p.sty.Element.LineWidth))),
		Dashes: dashPattern(n.FloatsOr(widget.KeyDashes, nil)),
	}
}

func dashPattern(fs []float64) []vg.Length {
	if len(fs) == 0 {
		return nil
	}
	out := make([]vg.Length, len(fs))
	for i, f := range fs {
		out[i] = vg.Length(f)
	}
	return out
}

var transparent = color.RGBA{}

// rangers and emitters are the per-kind behavior tables; the entries
// live in the per-element files.
type rangerFunc func(p *pass, n *widget.Node) (xext, yext scale.Extents, err error)
type emitterFunc func(p *pass, g *graphCtx, n *widget.Node)

var rangers = map[widget.Kind]rangerFunc{}
var emitters = map[widget.Kind]emitterFunc{}

func registerElement(k widget.Kind, r rangerFunc, e emitterFunc) {
	rangers[k] = r
	emitters[k] = e
}
