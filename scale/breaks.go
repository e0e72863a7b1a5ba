package scale

import (
	"fmt"
	"math"
	"sort"
)

// ----------------------------------------------------------------------------
// Axis breaks

// A Break is one visually compressed interval of an axis, given in
// data space. Compression scales the display width the interval
// would normally occupy: 0.1 squeezes the break to a tenth, 1 leaves
// it alone. A compression of zero or less means unset and is replaced
// by DefaultCompression.
type Break struct {
	Lo, Hi      float64
	Compression float64
}

func (b Break) String() string {
	return fmt.Sprintf("break [%g, %g] ×%g", b.Lo, b.Hi, b.Compression)
}

// DefaultCompression is used for breaks configured without one.
const DefaultCompression = 0.1

// An InvalidBreakError reports a break whose edges do not map to
// finite display coordinates on the axis' scale, such as a break
// reaching into negative values on a log axis. The break is dropped;
// travels as a warning.
type InvalidBreakError struct {
	Break Break
	Kind  Kind
}

func (e *InvalidBreakError) Error() string {
	return fmt.Sprintf("scale: dropping %v, not finite on a %s axis", e.Break, e.Kind)
}

// A segment is one piece of the piecewise-linear data-to-display map,
// in transformed space. factor is 1 for normal pieces and the break
// compression for break pieces.
type segment struct {
	lo, hi float64
	factor float64
	brk    bool
}

// buildSegments sets up the piecewise-linear display mapping for the
// resolved range and the given breaks. Breaks outside the range or
// degenerate after clipping are dropped; overlapping breaks are
// merged front to back.
func (r *Result) buildSegments(breaks []Break) {
	lo, hi := r.forward(r.Min), r.forward(r.Max)

	bs := make([]Break, 0, len(breaks))
	for _, b := range breaks {
		tb := Break{Lo: r.forward(b.Lo), Hi: r.forward(b.Hi), Compression: b.Compression}
		if math.IsNaN(tb.Lo) || math.IsInf(tb.Lo, 0) ||
			math.IsNaN(tb.Hi) || math.IsInf(tb.Hi, 0) {
			r.Warnings = append(r.Warnings, &InvalidBreakError{Break: b, Kind: r.Kind})
			continue
		}
		if tb.Compression <= 0 {
			tb.Compression = DefaultCompression
		}
		if tb.Lo > tb.Hi {
			tb.Lo, tb.Hi = tb.Hi, tb.Lo
		}
		if tb.Lo < lo {
			tb.Lo = lo
		}
		if tb.Hi > hi {
			tb.Hi = hi
		}
		if tb.Lo >= tb.Hi {
			continue
		}
		bs = append(bs, tb)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].Lo < bs[j].Lo })
	merged := bs[:0]
	for _, b := range bs {
		if n := len(merged); n > 0 && b.Lo < merged[n-1].Hi {
			if b.Hi > merged[n-1].Hi {
				merged[n-1].Hi = b.Hi
			}
			continue
		}
		merged = append(merged, b)
	}

	r.segs = r.segs[:0]
	pos := lo
	for _, b := range merged {
		if b.Lo > pos {
			r.segs = append(r.segs, segment{lo: pos, hi: b.Lo, factor: 1})
		}
		r.segs = append(r.segs, segment{lo: b.Lo, hi: b.Hi, factor: b.Compression, brk: true})
		pos = b.Hi
	}
	if pos < hi || len(r.segs) == 0 {
		r.segs = append(r.segs, segment{lo: pos, hi: hi, factor: 1})
	}

	r.tot = 0
	for _, s := range r.segs {
		r.tot += (s.hi - s.lo) * s.factor
	}
}

// visibleSegments returns the non-break segments in data space,
// together with the display-weight fraction each one occupies. Tick
// generation runs per visible segment so tick density follows the
// compressed geometry while labels stay in data space.
func (r *Result) visibleSegments() (ivs []Interval, frac []float64) {
	for _, s := range r.segs {
		if s.brk {
			continue
		}
		ivs = append(ivs, Interval{r.backward(s.lo), r.backward(s.hi)})
		frac = append(frac, (s.hi-s.lo)*s.factor/r.tot)
	}
	return ivs, frac
}

// BreakRanges returns the compressed intervals in data space, in
// ascending order. Renderers use them to place gap markers on the
// axis line.
func (r *Result) BreakRanges() []Interval {
	var ivs []Interval
	for _, s := range r.segs {
		if s.brk {
			ivs = append(ivs, Interval{r.backward(s.lo), r.backward(s.hi)})
		}
	}
	return ivs
}
