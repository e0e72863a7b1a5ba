package scale

import (
	"fmt"
	"math"

	"github.com/aclements/go-moremath/vec"
)

// ----------------------------------------------------------------------------
// Functional scales

// A FuncScale bundles a strictly monotonic forward function with its
// inverse, mapping data space to the space the axis is linear in.
// Forward and Inverse must satisfy Inverse(Forward(x)) == x over the
// axis range.
type FuncScale struct {
	Name    string
	Forward func(x float64) float64
	Inverse func(y float64) float64
}

// An InvalidScaleFunctionError reports a functional scale that is not
// strictly monotonic (or whose inverse does not invert) over the data
// range. The axis falls back to linear; the error travels as a
// warning.
type InvalidScaleFunctionError struct {
	Name   string
	At     float64
	Reason string
}

func (e *InvalidScaleFunctionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("scale: function %q invalid: %s", e.Name, e.Reason)
	}
	return fmt.Sprintf("scale: function %q not strictly monotonic near %g", e.Name, e.At)
}

// validationSamples is the size of the sample grid used to probe
// monotonicity over the data range.
const validationSamples = 65

// Validate probes fs over iv on a uniform sample grid and checks
// strict monotonicity and inverse round-trips.
func (fs *FuncScale) Validate(iv Interval) error {
	if fs.Forward == nil || fs.Inverse == nil {
		return &InvalidScaleFunctionError{Name: fs.Name, Reason: "forward or inverse missing"}
	}
	if !iv.Valid() || iv.Degenerate() {
		iv = Interval{0, 1}
	}

	xs := vec.Linspace(iv.Min, iv.Max, validationSamples)
	prev := math.NaN()
	dir := 0.0
	for _, x := range xs {
		y := fs.Forward(x)
		if math.IsNaN(y) || math.IsInf(y, 0) {
			return &InvalidScaleFunctionError{Name: fs.Name, At: x, Reason: "non-finite value"}
		}
		if !math.IsNaN(prev) {
			d := y - prev
			if d == 0 {
				return &InvalidScaleFunctionError{Name: fs.Name, At: x}
			}
			if dir == 0 {
				dir = d
			} else if d*dir < 0 {
				return &InvalidScaleFunctionError{Name: fs.Name, At: x}
			}
		}
		prev = y

		back := fs.Inverse(y)
		tol := 1e-6 * math.Max(1, math.Abs(x))
		if math.Abs(back-x) > tol {
			return &InvalidScaleFunctionError{Name: fs.Name, At: x, Reason: "inverse does not invert forward"}
		}
	}
	return nil
}

// Common functional scales.

// SqrtScale compresses large values; only valid for non-negative
// ranges.
func SqrtScale() *FuncScale {
	return &FuncScale{
		Name:    "sqrt",
		Forward: math.Sqrt,
		Inverse: func(y float64) float64 { return y * y },
	}
}

// AsinhScale behaves like log at large magnitudes but stays finite
// through zero.
func AsinhScale() *FuncScale {
	return &FuncScale{
		Name:    "asinh",
		Forward: math.Asinh,
		Inverse: math.Sinh,
	}
}

// ReciprocalScale maps x to -1/x, monotonic on ranges excluding zero.
func ReciprocalScale() *FuncScale {
	return &FuncScale{
		Name:    "reciprocal",
		Forward: func(x float64) float64 { return -1 / x },
		Inverse: func(y float64) float64 { return -1 / y },
	}
}

// FuncScaleByName resolves the built-in functional scales.
func FuncScaleByName(name string) *FuncScale {
	switch name {
	case "sqrt":
		return SqrtScale()
	case "asinh":
		return AsinhScale()
	case "reciprocal":
		return ReciprocalScale()
	}
	return nil
}
