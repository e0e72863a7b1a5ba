// Package scale computes axis ranges and tick sequences.
//
// The scaler is pure numeric code: it knows nothing about widgets or
// datasets. Callers accumulate error-inclusive data extents into an
// Extents value and hand it to Compute together with the axis
// configuration; the result is a resolved range, a data-to-display
// mapping (honoring log/date/functional scales and axis breaks) and a
// tick sequence labeled in data space.
package scale

import "math"

// ----------------------------------------------------------------------------
// Interval

// Interval represents a (potentially degenerate) real interval.
// Both edges may be NaN indicating this edge is not set.
type Interval struct {
	Min, Max float64
}

// UnsetInterval returns the interval with both edges unset.
func UnsetInterval() Interval {
	return Interval{math.NaN(), math.NaN()}
}

// Update expands i to include each finite x.
func (i *Interval) Update(x ...float64) {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if !(i.Min < v) {
			i.Min = v
		}
		if !(i.Max > v) {
			i.Max = v
		}
	}
}

// Valid reports whether both edges are set.
func (i Interval) Valid() bool {
	return !math.IsNaN(i.Min) && !math.IsNaN(i.Max)
}

// Degenerate reports whether the interval is a single point.
func (i Interval) Degenerate() bool {
	return i.Valid() && i.Min == i.Max
}

// Length returns Max - Min.
func (i Interval) Length() float64 { return i.Max - i.Min }

// Contains reports whether x lies in [Min, Max].
func (i Interval) Contains(x float64) bool {
	return x >= i.Min && x <= i.Max
}

// Equal compares intervals treating NaN edges as equal.
func (i Interval) Equal(j Interval) bool {
	if math.IsNaN(i.Min) {
		return math.IsNaN(j.Min)
	}
	if math.IsNaN(i.Max) {
		return math.IsNaN(j.Max)
	}
	return i.Min == j.Min && i.Max == j.Max
}

// ----------------------------------------------------------------------------
// Extents

// Extents accumulates error-inclusive data extents for one axis
// dimension. It tracks the full extent, the positive-only extent
// (needed when a log scale has to drop non-positive values) and
// whether any non-positive value was seen.
type Extents struct {
	All         Interval
	Positive    Interval
	NonPositive bool
}

// NewExtents returns empty extents.
func NewExtents() Extents {
	return Extents{All: UnsetInterval(), Positive: UnsetInterval()}
}

// Add records one data point with its error-inclusive low and high
// extent. Non-finite components are ignored.
func (e *Extents) Add(lo, hi float64) {
	e.All.Update(lo, hi)
	for _, v := range []float64{lo, hi} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v > 0 {
			e.Positive.Update(v)
		} else {
			e.NonPositive = true
		}
	}
}

// AddValue records a point without error extent.
func (e *Extents) AddValue(v float64) { e.Add(v, v) }

// Merge folds o into e. Linked axes merge their extents so both
// sides resolve to the identical range within one scaling pass.
func (e *Extents) Merge(o Extents) {
	e.All.Update(o.All.Min, o.All.Max)
	e.Positive.Update(o.Positive.Min, o.Positive.Max)
	e.NonPositive = e.NonPositive || o.NonPositive
}
