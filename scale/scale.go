package scale

import (
	"fmt"
	"math"
)

// Kind selects one of the known scale types.
type Kind int

const (
	Linear Kind = iota
	Log
	Date
	Functional
)

func (k Kind) String() string {
	return []string{"linear", "log", "date", "functional"}[int(k)]
}

// KindByName maps the property-level scale names to kinds.
func KindByName(s string) Kind {
	switch s {
	case "log":
		return Log
	case "date":
		return Date
	case "function":
		return Functional
	}
	return Linear
}

// ----------------------------------------------------------------------------
// Errors

// An EmptyRangeError reports that auto-ranging found no usable finite
// value. The computed result falls back to a default unit range so
// layout and rendering still proceed; the error travels as a warning.
type EmptyRangeError struct {
	Kind Kind
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("scale: no finite data for auto-ranging a %s axis", e.Kind)
}

// A NonPositiveError reports that a log axis dropped non-positive
// values from range computation. Recoverable; travels as a warning.
type NonPositiveError struct{}

func (e *NonPositiveError) Error() string {
	return "scale: log axis ignores non-positive values"
}

// A DegenerateRangeError reports that min >= max remained after
// reconciling manual overrides with the auto range; the range was
// widened. Recoverable; travels as a warning.
type DegenerateRangeError struct {
	Min, Max float64
}

func (e *DegenerateRangeError) Error() string {
	return fmt.Sprintf("scale: degenerate range [%g, %g] widened", e.Min, e.Max)
}

// ----------------------------------------------------------------------------
// Config and Result

// Config describes one axis' scaling requirements.
type Config struct {
	Kind Kind

	// Min and Max fix the range per bound. NaN means auto. Only-min
	// set leaves max auto-ranged, and vice versa.
	Min, Max float64

	// MarginFrac expands auto-ranged bounds by this fraction of the
	// data span. Manual bounds are never expanded.
	MarginFrac float64

	// TickTarget is the approximate number of major ticks wanted.
	TickTarget int

	// Breaks lists the axis break intervals, in data space, sorted
	// and non-overlapping.
	Breaks []Break

	// Fn is the functional scale, required for Kind == Functional.
	Fn *FuncScale
}

// DefaultConfig returns a linear auto-ranging config with a 5% margin
// and about six ticks, matching the usual plotting defaults.
func DefaultConfig() Config {
	return Config{Min: math.NaN(), Max: math.NaN(), MarginFrac: 0.05, TickTarget: 6}
}

// A Result is a resolved axis range plus its tick sequence and the
// data-to-display mapping. Results are immutable once computed and safe
// to share between concurrent renders.
type Result struct {
	Interval           // resolved range in data space, Min < Max
	Kind     Kind
	Ticks    []Tick
	Warnings []error

	fn   *FuncScale
	flip bool      // functional scale is monotonically decreasing
	segs []segment // display mapping segments in transformed space
	tot  float64   // total segment weight
}

// A Tick is one tick mark, positioned in data space.
type Tick struct {
	Value float64
	Label string // empty for minor ticks
	Minor bool
}

// ----------------------------------------------------------------------------
// Compute

// Compute resolves the axis range from cfg and the accumulated data
// extents and builds the tick sequence. All recoverable conditions
// (empty range, dropped non-positive values, degenerate manual
// ranges, invalid scale functions) are reported in Result.Warnings;
// Compute itself never fails.
func Compute(cfg Config, ext Extents) *Result {
	if cfg.MarginFrac == 0 {
		cfg.MarginFrac = 0.05
	}
	if cfg.TickTarget <= 0 {
		cfg.TickTarget = 6
	}

	r := &Result{Kind: cfg.Kind, fn: cfg.Fn}

	// A functional scale must be strictly monotonic over the data
	// range; otherwise fall back to linear with a warning.
	if cfg.Kind == Functional {
		probe := ext.All
		if !probe.Valid() {
			probe = Interval{0, 1}
		}
		if cfg.Fn == nil {
			r.Kind = Linear
			r.fn = nil
			r.Warnings = append(r.Warnings, &InvalidScaleFunctionError{Name: "<nil>", Reason: "no function supplied"})
		} else if err := cfg.Fn.Validate(probe); err != nil {
			r.Kind = Linear
			r.fn = nil
			r.Warnings = append(r.Warnings, err)
		}
	}

	data := ext.All
	if r.Kind == Log {
		if ext.NonPositive && ext.Positive.Valid() {
			r.Warnings = append(r.Warnings, &NonPositiveError{})
		}
		data = ext.Positive
	}

	min, max := cfg.Min, cfg.Max
	autoMin, autoMax := math.IsNaN(min), math.IsNaN(max)

	if (autoMin || autoMax) && !data.Valid() {
		r.Warnings = append(r.Warnings, &EmptyRangeError{Kind: r.Kind})
		if r.Kind == Log {
			data = Interval{1, 10}
		} else {
			data = Interval{0, 1}
		}
	}

	if autoMin {
		min = data.Min
	}
	if autoMax {
		max = data.Max
	}

	// A decreasing functional scale is handled by negating the
	// transformed space, so the display mapping always increases.
	if r.Kind == Functional && min < max {
		r.flip = r.fn.Forward(min) > r.fn.Forward(max)
	}

	// Expand auto bounds by the configured margin. Log and
	// functional scales expand in transformed space so the visual
	// margin is uniform.
	if span := max - min; span > 0 {
		switch r.Kind {
		case Log:
			f := math.Pow(10, cfg.MarginFrac*math.Log10(max/min))
			if autoMin {
				min /= f
			}
			if autoMax {
				max *= f
			}
		case Functional:
			tmin, tmax := r.forward(min), r.forward(max)
			ext := cfg.MarginFrac * (tmax - tmin)
			if autoMin {
				if m := r.backward(tmin - ext); !math.IsNaN(m) && !math.IsInf(m, 0) && m < min {
					min = m
				}
			}
			if autoMax {
				if m := r.backward(tmax + ext); !math.IsNaN(m) && !math.IsInf(m, 0) && m > max {
					max = m
				}
			}
		default:
			if autoMin {
				min -= cfg.MarginFrac * span
			}
			if autoMax {
				max += cfg.MarginFrac * span
			}
		}
	}

	// Reconcile: the invariant is min < max, whatever the overrides
	// said.
	if !(min < max) {
		r.Warnings = append(r.Warnings, &DegenerateRangeError{Min: min, Max: max})
		switch {
		case r.Kind == Log:
			if min <= 0 {
				min = 1
			}
			max = min * 10
		case min == max:
			min, max = min-0.5, max+0.5
		default:
			min, max = max, min
		}
	}
	if r.Kind == Log && min <= 0 {
		// Log scale rejects non-positive bounds even when manually
		// set.
		r.Warnings = append(r.Warnings, &NonPositiveError{})
		if max <= 0 {
			max = 10
		}
		min = max / 1000
	}

	r.Min, r.Max = min, max
	r.buildSegments(cfg.Breaks)
	r.buildTicks(cfg.TickTarget)
	return r
}

// forward maps a data coordinate into transformed space (the space
// the display mapping is linear in).
func (r *Result) forward(x float64) float64 {
	switch r.Kind {
	case Log:
		return math.Log10(x)
	case Functional:
		if r.flip {
			return -r.fn.Forward(x)
		}
		return r.fn.Forward(x)
	}
	return x
}

// backward inverts forward.
func (r *Result) backward(t float64) float64 {
	switch r.Kind {
	case Log:
		return math.Pow(10, t)
	case Functional:
		if r.flip {
			return r.fn.Inverse(-t)
		}
		return r.fn.Inverse(t)
	}
	return t
}

// Norm maps a data coordinate to [0, 1] display space, honoring the
// scale kind and axis breaks. Values outside the range map outside
// [0, 1].
func (r *Result) Norm(x float64) float64 {
	t := r.forward(x)
	if len(r.segs) == 0 || r.tot <= 0 {
		return math.NaN()
	}
	w := 0.0
	for i, s := range r.segs {
		if t <= s.hi || i == len(r.segs)-1 {
			return (w + (t-s.lo)*s.factor) / r.tot
		}
		w += (s.hi - s.lo) * s.factor
	}
	return math.NaN()
}

// Invert maps a display coordinate in [0, 1] back to data space. For
// coordinates inside a compressed break the data coordinate within
// the break is returned; round-tripping is exact for coordinates
// outside breaks.
func (r *Result) Invert(u float64) float64 {
	if len(r.segs) == 0 || r.tot <= 0 {
		return math.NaN()
	}
	w := u * r.tot
	for i, s := range r.segs {
		sw := (s.hi - s.lo) * s.factor
		if w <= sw || i == len(r.segs)-1 {
			return r.backward(s.lo + w/s.factor)
		}
		w -= sw
	}
	return math.NaN()
}
