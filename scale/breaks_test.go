package scale

import (
	"math"
	"testing"
)

func brokenResult(t *testing.T) *Result {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Min, cfg.Max = 0, 100
	cfg.Breaks = []Break{{Lo: 10, Hi: 90, Compression: 0.1}}
	r := Compute(cfg, extentsOf(0, 100))
	if len(r.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", r.Warnings)
	}
	return r
}

func TestBreakRoundTrip(t *testing.T) {
	r := brokenResult(t)
	// Round trip must be exact (within float tolerance) for data
	// outside the break interval.
	for _, x := range []float64{0, 3, 9.99, 90.01, 95, 100} {
		u := r.Norm(x)
		back := r.Invert(u)
		if math.Abs(back-x) > 1e-9 {
			t.Errorf("Invert(Norm(%g)) = %g", x, back)
		}
	}
}

func TestBreakCompression(t *testing.T) {
	r := brokenResult(t)
	// The 80-wide break at compression 0.1 weighs like 8 units, so
	// the total display weight is 10 + 8 + 10 = 28.
	if got := r.Norm(10); math.Abs(got-10.0/28) > 1e-12 {
		t.Errorf("Norm(10) = %g, want %g", got, 10.0/28)
	}
	if got := r.Norm(90); math.Abs(got-18.0/28) > 1e-12 {
		t.Errorf("Norm(90) = %g, want %g", got, 18.0/28)
	}
	// Monotonic through the break.
	prev := math.Inf(-1)
	for x := 0.0; x <= 100; x += 0.5 {
		u := r.Norm(x)
		if u < prev {
			t.Fatalf("Norm not monotonic at %g", x)
		}
		prev = u
	}
}

func TestBreakTicksLabeledInDataSpace(t *testing.T) {
	r := brokenResult(t)
	for _, tk := range r.Ticks {
		if tk.Minor {
			continue
		}
		if tk.Value > 10+1e-9 && tk.Value < 90-1e-9 {
			t.Errorf("major tick %g lies inside the break", tk.Value)
		}
	}
	// Both visible segments must carry ticks.
	lowSeg, highSeg := false, false
	for _, tk := range r.Ticks {
		if tk.Minor {
			continue
		}
		if tk.Value <= 10 {
			lowSeg = true
		}
		if tk.Value >= 90 {
			highSeg = true
		}
	}
	if !lowSeg || !highSeg {
		t.Error("each visible segment must get its own ticks")
	}
}

func TestOverlappingBreaksMerged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Min, cfg.Max = 0, 10
	cfg.Breaks = []Break{
		{Lo: 2, Hi: 5, Compression: 0.5},
		{Lo: 4, Hi: 7, Compression: 0.5},
	}
	r := Compute(cfg, extentsOf(0, 10))
	prev := math.Inf(-1)
	for x := 0.0; x <= 10; x += 0.1 {
		u := r.Norm(x)
		if u < prev {
			t.Fatalf("Norm not monotonic with overlapping breaks at %g", x)
		}
		prev = u
	}
	if math.Abs(r.Norm(0)) > 1e-12 || math.Abs(r.Norm(10)-1) > 1e-12 {
		t.Error("edges must still map to 0 and 1")
	}
}

func TestBreaksOutsideRangeIgnored(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Min, cfg.Max = 0, 1
	cfg.Breaks = []Break{{Lo: 5, Hi: 9, Compression: 0.1}}
	r := Compute(cfg, extentsOf(0, 1))
	if got := r.Norm(0.5); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("Norm(0.5) = %g with out-of-range break, want 0.5", got)
	}
}

func TestNonFiniteBreakDroppedWithWarning(t *testing.T) {
	// A break edge in negative territory has no logarithm. The break
	// must be dropped with a warning, not poison the display map.
	cfg := DefaultConfig()
	cfg.Kind = Log
	cfg.Breaks = []Break{{Lo: -5, Hi: 10, Compression: 0.1}}
	r := Compute(cfg, extentsOf(1, 1000))

	found := false
	for _, w := range r.Warnings {
		if _, ok := w.(*InvalidBreakError); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want an InvalidBreakError", r.Warnings)
	}
	for _, x := range []float64{1, 50, 1000} {
		if u := r.Norm(x); math.IsNaN(u) {
			t.Errorf("Norm(%g) = NaN after dropping the break", x)
		}
	}
	if len(r.BreakRanges()) != 0 {
		t.Errorf("BreakRanges() = %v, want none", r.BreakRanges())
	}
}
