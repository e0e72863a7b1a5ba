// Package dataset implements the named-array registry backing a plot
// document.
//
// A dataset is a named numeric or text array, optionally carrying
// symmetric or asymmetric error arrays. Datasets may be plain (set
// directly), derived (a pure function of other datasets, re-evaluated
// whenever a dependency changes) or captured (appended to by an external
// feed). Derived datasets form a DAG; an edit that would introduce a
// cycle is rejected before any evaluation happens.
package dataset

import (
	"fmt"
	"math"
)

// Kind describes what a dataset holds.
type Kind int

const (
	Numeric Kind = iota
	Text
)

func (k Kind) String() string {
	return []string{"numeric", "text"}[int(k)]
}

// A Dataset is a named array together with optional error arrays.
// Datasets handed out by a Registry are immutable; editing happens
// through the registry, which installs a fresh Dataset and bumps the
// version. Callers must not modify the slices.
type Dataset struct {
	Name string
	Kind Kind

	// Values holds the numeric data for Kind == Numeric.
	Values []float64

	// Strings holds the data for Kind == Text.
	Strings []string

	// ErrPlus and ErrMinus are the positive and negative error
	// extents per point. A symmetric error is stored in both. Either
	// may be nil. Both are interpreted as magnitudes.
	ErrPlus  []float64
	ErrMinus []float64

	// Version counts edits to this name. The zero dataset has
	// version 0; the first Set produces version 1.
	Version int64
}

// Len returns the number of points in d.
func (d *Dataset) Len() int {
	if d.Kind == Text {
		return len(d.Strings)
	}
	return len(d.Values)
}

// Point returns the i'th value together with its error-inclusive
// low and high extent. Missing error arrays contribute zero extent.
func (d *Dataset) Point(i int) (v, lo, hi float64) {
	v = d.Values[i]
	lo, hi = v, v
	if d.ErrMinus != nil && i < len(d.ErrMinus) {
		lo = v - math.Abs(d.ErrMinus[i])
	}
	if d.ErrPlus != nil && i < len(d.ErrPlus) {
		hi = v + math.Abs(d.ErrPlus[i])
	}
	return v, lo, hi
}

// Range returns the minimum and maximum over all error-inclusive
// extents of d, ignoring non-finite values, and the number of finite
// points seen. If no finite value exists min and max are NaN.
func (d *Dataset) Range() (min, max float64, n int) {
	min, max = math.NaN(), math.NaN()
	for i := range d.Values {
		v, lo, hi := d.Point(i)
		if !finite(v) {
			continue
		}
		if !finite(lo) {
			lo = v
		}
		if !finite(hi) {
			hi = v
		}
		if !(min <= lo) {
			min = lo
		}
		if !(max >= hi) {
			max = hi
		}
		n++
	}
	return min, max, n
}

// clone returns a deep copy of d with the given version.
func (d *Dataset) clone(version int64) *Dataset {
	c := &Dataset{Name: d.Name, Kind: d.Kind, Version: version}
	c.Values = append([]float64(nil), d.Values...)
	if d.Strings != nil {
		c.Strings = append([]string(nil), d.Strings...)
	}
	if d.ErrPlus != nil {
		c.ErrPlus = append([]float64(nil), d.ErrPlus...)
	}
	if d.ErrMinus != nil {
		c.ErrMinus = append([]float64(nil), d.ErrMinus...)
	}
	return c
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// A NotFoundError reports a lookup of an unknown dataset name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset: no dataset named %q", e.Name)
}

// A CyclicError reports an edit that would create a dependency cycle
// between derived datasets. The edit is rejected; the registry keeps
// its previous state.
type CyclicError struct {
	Name  string
	Cycle []string
}

func (e *CyclicError) Error() string {
	return fmt.Sprintf("dataset: derived dataset %q would create cycle %v", e.Name, e.Cycle)
}
