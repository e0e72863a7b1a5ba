package scale

import (
	"math"
	"strconv"
	"time"
)

// ----------------------------------------------------------------------------
// Tick generation
//
// Steps are chosen from 1, 2, 5 × 10^k. Among the candidates the one
// whose tick count is closest to the target wins; on a tie the larger
// step (fewer ticks) wins. Labels carry the minimum precision that
// keeps adjacent labels distinct.

// buildTicks fills r.Ticks. Broken axes generate ticks per visible
// segment with a target proportional to the segment's display width,
// so tick density follows the compressed geometry; labels are always
// in data space.
func (r *Result) buildTicks(target int) {
	ivs, frac := r.visibleSegments()
	r.Ticks = r.Ticks[:0]
	for i, iv := range ivs {
		t := target
		if len(ivs) > 1 {
			t = int(math.Round(float64(target) * frac[i]))
			if t < 2 {
				t = 2
			}
		}
		switch r.Kind {
		case Log:
			r.Ticks = append(r.Ticks, logTicks(iv.Min, iv.Max, t)...)
		case Date:
			r.Ticks = append(r.Ticks, dateTicks(iv.Min, iv.Max, t)...)
		default:
			r.Ticks = append(r.Ticks, linTicks(iv.Min, iv.Max, t)...)
		}
	}
}

// niceStep returns the 1/2/5×10^k step whose tick count over a span
// is closest to target; ties go to the larger step.
func niceStep(span float64, target int) float64 {
	if span <= 0 || target < 1 {
		return 1
	}
	raw := span / float64(target)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))

	best := mag
	bestDiff := math.Inf(1)
	for _, m := range []float64{mag / 10, mag, mag * 10} {
		for _, mult := range []float64{1, 2, 5} {
			step := mult * m
			count := math.Floor(span/step) + 1
			diff := math.Abs(count - float64(target))
			if diff < bestDiff || (diff == bestDiff && step > best) {
				best, bestDiff = step, diff
			}
		}
	}
	return best
}

// linTicks returns major ticks at nice steps plus half-step minors.
func linTicks(lo, hi float64, target int) []Tick {
	step := niceStep(hi-lo, target)
	const eps = 1e-9

	var majors []float64
	for i := math.Ceil(lo/step - eps); i*step <= hi+eps*step; i++ {
		majors = append(majors, i*step)
	}
	labels := formatTickLabels(majors, step)

	var ticks []Tick
	half := step / 2
	for i, v := range majors {
		if i == 0 && v-half >= lo {
			ticks = append(ticks, Tick{Value: v - half, Minor: true})
		}
		ticks = append(ticks, Tick{Value: v, Label: labels[i]})
		if v+half <= hi+eps*step {
			ticks = append(ticks, Tick{Value: v + half, Minor: true})
		}
	}
	return ticks
}

// formatTickLabels formats the major tick values with the minimum
// precision that keeps adjacent labels distinct. Values of extreme
// magnitude switch to exponent form.
func formatTickLabels(vals []float64, step float64) []string {
	if len(vals) == 0 {
		return nil
	}
	maxAbs := 0.0
	for _, v := range vals {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	if maxAbs >= 1e6 || (step > 0 && step < 1e-4) {
		for prec := 2; ; prec++ {
			labels := make([]string, len(vals))
			for i, v := range vals {
				labels[i] = strconv.FormatFloat(v, 'g', prec, 64)
			}
			if prec >= 12 || distinctAdjacent(labels, vals) {
				return labels
			}
		}
	}

	dec := 0
	if step > 0 && step < 1 {
		dec = int(math.Ceil(-math.Log10(step) - 1e-9))
	}
	for ; ; dec++ {
		labels := make([]string, len(vals))
		for i, v := range vals {
			labels[i] = strconv.FormatFloat(v, 'f', dec, 64)
			if labels[i] == "-0" || labels[i] == "-0."+zeros(dec) {
				labels[i] = labels[i][1:]
			}
		}
		if dec >= 12 || (distinctAdjacent(labels, vals) && faithful(labels, vals, step)) {
			return labels
		}
	}
}

// faithful reports whether every label parses back to its value
// within a small fraction of the step, so a tick at 1.25 is never
// shown as "1.2".
func faithful(labels []string, vals []float64, step float64) bool {
	if step <= 0 {
		return true
	}
	for i, l := range labels {
		p, err := strconv.ParseFloat(l, 64)
		if err != nil || math.Abs(p-vals[i]) > step*1e-3 {
			return false
		}
	}
	return true
}

func zeros(n int) string {
	s := ""
	for i := 0; i < n; i++ {
		s += "0"
	}
	return s
}

// distinctAdjacent reports whether all adjacent labels of distinct
// values differ.
func distinctAdjacent(labels []string, vals []float64) bool {
	for i := 1; i < len(labels); i++ {
		if vals[i] != vals[i-1] && labels[i] == labels[i-1] {
			return false
		}
	}
	return true
}

// logTicks returns decade ticks for a log axis, with 2× and 5×
// minors when every decade gets a major. Ranges spanning less than a
// full decade fall back to linear ticks.
func logTicks(lo, hi float64, target int) []Tick {
	if lo <= 0 || hi <= lo {
		return nil
	}
	klo := int(math.Ceil(math.Log10(lo) - 1e-9))
	khi := int(math.Floor(math.Log10(hi) + 1e-9))
	if khi < klo+1 {
		return linTicks(lo, hi, target)
	}

	kstep := 1
	if decades := khi - klo + 1; decades > target {
		kstep = int(math.Ceil(float64(decades) / float64(target)))
	}

	var ticks []Tick
	for k := klo; k <= khi; k += kstep {
		v := math.Pow(10, float64(k))
		ticks = append(ticks, Tick{Value: v, Label: strconv.FormatFloat(v, 'g', -1, 64)})
		if kstep == 1 {
			for _, m := range []float64{2, 5} {
				if mv := m * v; mv >= lo && mv <= hi {
					ticks = append(ticks, Tick{Value: mv, Minor: true})
				}
			}
		}
	}
	return ticks
}

// ----------------------------------------------------------------------------
// Date ticks
//
// Date axes hold Unix seconds. Steps are quantized to calendar units
// rather than powers of ten; month and year steps walk real calendar
// boundaries.

type dateUnit int

const (
	unitSecond dateUnit = iota
	unitMinute
	unitHour
	unitDay
	unitWeek
	unitMonth
	unitYear
)

type dateStep struct {
	unit dateUnit
	n    int
	secs float64 // nominal length, for step selection only
}

var dateSteps = func() []dateStep {
	var steps []dateStep
	for _, n := range []int{1, 2, 5, 10, 15, 30} {
		steps = append(steps, dateStep{unitSecond, n, float64(n)})
	}
	for _, n := range []int{1, 2, 5, 10, 15, 30} {
		steps = append(steps, dateStep{unitMinute, n, float64(n) * 60})
	}
	for _, n := range []int{1, 2, 3, 6, 12} {
		steps = append(steps, dateStep{unitHour, n, float64(n) * 3600})
	}
	for _, n := range []int{1, 2} {
		steps = append(steps, dateStep{unitDay, n, float64(n) * 86400})
	}
	for _, n := range []int{1, 2} {
		steps = append(steps, dateStep{unitWeek, n, float64(n) * 7 * 86400})
	}
	for _, n := range []int{1, 2, 3, 6} {
		steps = append(steps, dateStep{unitMonth, n, float64(n) * 30.44 * 86400})
	}
	return steps
}()

var dateLayouts = map[dateUnit]string{
	unitSecond: "15:04:05",
	unitMinute: "15:04",
	unitHour:   "Jan 2 15:04",
	unitDay:    "2006-01-02",
	unitWeek:   "2006-01-02",
	unitMonth:  "Jan 2006",
	unitYear:   "2006",
}

// dateTicks quantizes tick steps to calendar units. Beyond multi-year
// spans the year number itself gets nice 1/2/5 steps.
func dateTicks(lo, hi float64, target int) []Tick {
	span := hi - lo
	if span <= 0 {
		return nil
	}

	best := dateSteps[0]
	bestDiff := math.Inf(1)
	for _, s := range dateSteps {
		diff := math.Abs(span/s.secs - float64(target))
		if diff < bestDiff {
			best, bestDiff = s, diff
		}
	}
	yearSecs := 365.2425 * 86400
	if span/yearSecs >= float64(target) || math.Abs(span/yearSecs-float64(target)) < bestDiff {
		return yearTicks(lo, hi, target)
	}

	var ticks []Tick
	layout := dateLayouts[best.unit]
	switch best.unit {
	case unitMonth:
		t := time.Unix(int64(lo), 0).UTC()
		t = time.Date(t.Year(), time.Month(int(t.Month()-1)/best.n*best.n+1), 1, 0, 0, 0, 0, time.UTC)
		for ; float64(t.Unix()) <= hi; t = t.AddDate(0, best.n, 0) {
			v := float64(t.Unix())
			if v < lo {
				continue
			}
			ticks = append(ticks, Tick{Value: v, Label: t.Format(layout)})
		}
	case unitDay, unitWeek:
		secs := best.secs
		t := time.Unix(int64(lo), 0).UTC()
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		if best.unit == unitWeek {
			// Align to Monday.
			off := (int(t.Weekday()) + 6) % 7
			t = t.AddDate(0, 0, -off)
		}
		for ; float64(t.Unix()) <= hi; t = t.Add(time.Duration(secs) * time.Second) {
			v := float64(t.Unix())
			if v < lo {
				continue
			}
			ticks = append(ticks, Tick{Value: v, Label: t.Format(layout)})
		}
	default:
		step := best.secs
		for v := math.Ceil(lo/step) * step; v <= hi; v += step {
			t := time.Unix(int64(v), 0).UTC()
			ticks = append(ticks, Tick{Value: v, Label: t.Format(layout)})
		}
	}
	return ticks
}

// yearTicks places ticks at nice year numbers.
func yearTicks(lo, hi float64, target int) []Tick {
	ylo := float64(time.Unix(int64(lo), 0).UTC().Year())
	yhi := float64(time.Unix(int64(hi), 0).UTC().Year())
	step := niceStep(yhi-ylo, target)
	if step < 1 {
		step = 1
	}
	var ticks []Tick
	for y := math.Ceil(ylo/step) * step; y <= yhi; y += step {
		t := time.Date(int(y), time.January, 1, 0, 0, 0, 0, time.UTC)
		v := float64(t.Unix())
		if v < lo || v > hi {
			continue
		}
		ticks = append(ticks, Tick{Value: v, Label: t.Format("2006")})
	}
	return ticks
}
