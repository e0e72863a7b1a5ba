package render

import (
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/widget"
)

// hitTolerance is how close, in canvas units, the pointer must be to
// a stroked path to count as a hit.
const hitTolerance = vg.Length(3)

// HitTest finds the topmost primitive under the given canvas point
// and returns the widget that emitted it together with the data
// coordinates attached to the primitive (nil when the primitive is
// decoration). Primitives clipped away at the point are not hit.
func HitTest(s *Stream, at vg.Point) (widget.ID, []float64, bool) {
	// Forward scan records the clip depth state; the clip stack at
	// primitive i must contain the point for i to be hittable.
	clips := make([][]vg.Rectangle, len(s.Prims))
	var stack []vg.Rectangle
	for i, pr := range s.Prims {
		clips[i] = stack
		switch pr.Op {
		case OpClipPush:
			stack = append(append([]vg.Rectangle(nil), stack...), pr.Rect)
		case OpClipPop:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	for i := len(s.Prims) - 1; i >= 0; i-- {
		pr := &s.Prims[i]
		if pr.Op == OpClipPush || pr.Op == OpClipPop {
			continue
		}
		clipped := false
		for _, r := range clips[i] {
			if !rectContains(r, at) {
				clipped = true
				break
			}
		}
		if clipped {
			continue
		}
		if hitPrimitive(pr, at) {
			return pr.Node, pr.Data, true
		}
	}
	return 0, nil, false
}

func hitPrimitive(pr *Primitive, at vg.Point) bool {
	switch pr.Op {
	case OpPath:
		if pr.Closed && pr.Fill.A > 0 && polygonContains(pr.Points, at) {
			return true
		}
		tol := hitTolerance
		if pr.Stroke != nil && pr.Stroke.Width/2 > tol {
			tol = pr.Stroke.Width / 2
		}
		n := len(pr.Points)
		for i := 0; i+1 < n; i++ {
			if segmentDist(pr.Points[i], pr.Points[i+1], at) <= tol {
				return true
			}
		}
		if pr.Closed && n > 2 {
			return segmentDist(pr.Points[n-1], pr.Points[0], at) <= tol
		}
		return false
	case OpText:
		// Texts hit within one font size of the anchor.
		return dist(pr.At, at) <= pr.Font.Size
	case OpImage:
		return rectContains(pr.Rect, at)
	}
	return false
}

func rectContains(r vg.Rectangle, p vg.Point) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func dist(a, b vg.Point) vg.Length {
	return vg.Length(math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)))
}

// segmentDist returns the distance from p to the segment a-b.
func segmentDist(a, b, p vg.Point) vg.Length {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X), float64(b.Y)
	px, py := float64(p.X), float64(p.Y)
	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = ((px-ax)*dx + (py-ay)*dy) / l2
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	return vg.Length(math.Hypot(px-(ax+t*dx), py-(ay+t*dy)))
}

// polygonContains runs the even-odd crossing rule.
func polygonContains(pts []vg.Point, p vg.Point) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, yj := pts[i].Y, pts[j].Y
		if (yi > p.Y) != (yj > p.Y) {
			x := pts[j].X + (pts[i].X-pts[j].X)*(p.Y-yj)/(yi-yj)
			if p.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
