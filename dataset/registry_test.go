package dataset

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(deps ...[]float64) []float64 {
	n := 0
	for _, d := range deps {
		if len(d) > n {
			n = len(d)
		}
	}
	out := make([]float64, n)
	for _, d := range deps {
		for i, v := range d {
			out[i] += v
		}
	}
	return out
}

func TestDerivedRecompute(t *testing.T) {
	r := NewRegistry()
	r.Set("a", []float64{1, 2, 3})
	r.Set("b", []float64{10, 20, 30})
	require.NoError(t, r.SetDerived("c", []string{"a", "b"}, sum))

	c, err := r.Get("c")
	require.NoError(t, err)
	require.Equal(t, []float64{11, 22, 33}, c.Values)

	v0 := c.Version
	r.Set("a", []float64{100, 200, 300})
	c, err = r.Get("c")
	require.NoError(t, err)
	require.Equal(t, []float64{110, 220, 330}, c.Values)
	require.Greater(t, c.Version, v0, "dependency edit must bump the derived version")
}

func TestDerivedChain(t *testing.T) {
	r := NewRegistry()
	r.Set("a", []float64{1})
	require.NoError(t, r.SetDerived("b", []string{"a"}, sum))
	require.NoError(t, r.SetDerived("c", []string{"b"}, sum))

	r.Set("a", []float64{5})
	c, err := r.Get("c")
	require.NoError(t, err)
	require.Equal(t, []float64{5}, c.Values)
}

func TestCycleRejected(t *testing.T) {
	r := NewRegistry()
	r.Set("a", []float64{1})
	require.NoError(t, r.SetDerived("b", []string{"a"}, sum))
	require.NoError(t, r.SetDerived("c", []string{"b"}, sum))

	err := r.SetDerived("a", []string{"c"}, sum)
	var cyc *CyclicError
	require.ErrorAs(t, err, &cyc)
	require.Equal(t, "a", cyc.Name)

	// Prior state retained: "a" is still the plain dataset.
	a, err := r.Get("a")
	require.NoError(t, err)
	require.Equal(t, []float64{1}, a.Values)
	require.Empty(t, r.Dependencies("a"))
}

func TestSelfCycleRejected(t *testing.T) {
	r := NewRegistry()
	err := r.SetDerived("x", []string{"x"}, sum)
	var cyc *CyclicError
	require.ErrorAs(t, err, &cyc)
}

func TestCapturedAppend(t *testing.T) {
	r := NewRegistry()
	r.Append("feed", 1, 2)
	r.Append("feed", 3)
	d, err := r.Get("feed")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3}, d.Values)
	require.EqualValues(t, 2, d.Version)

	require.NoError(t, r.SetDerived("twice", []string{"feed"}, func(deps ...[]float64) []float64 {
		out := make([]float64, len(deps[0]))
		for i, v := range deps[0] {
			out[i] = 2 * v
		}
		return out
	}))
	r.Append("feed", 4)
	d, err = r.Get("twice")
	require.NoError(t, err)
	require.Equal(t, []float64{2, 4, 6, 8}, d.Values)
}

func TestSnapshotIsolation(t *testing.T) {
	r := NewRegistry()
	r.Set("a", []float64{1, 2})
	v := r.Snapshot()

	r.Set("a", []float64{9, 9, 9})

	d, err := v.Get("a")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, d.Values, "view must keep the snapshotted values")

	cur, err := r.Get("a")
	require.NoError(t, err)
	require.Equal(t, []float64{9, 9, 9}, cur.Values)
	require.Greater(t, r.Version(), v.Version())
}

func TestConcurrentReaders(t *testing.T) {
	r := NewRegistry()
	r.Set("a", []float64{1, 2, 3})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				d, err := r.Get("a")
				if err != nil || d.Len() == 0 {
					t.Error("reader observed missing dataset")
					return
				}
			}
		}()
	}
	for j := 0; j < 100; j++ {
		r.Set("a", []float64{float64(j), 1, 2})
	}
	wg.Wait()
}

func TestRangeErrorInclusive(t *testing.T) {
	d := &Dataset{
		Values:   []float64{10, 20, math.NaN(), 15},
		ErrMinus: []float64{1, 2, 0, 0},
		ErrPlus:  []float64{1, 5, 0, 0},
	}
	min, max, n := d.Range()
	if min != 9 || max != 25 || n != 3 {
		t.Errorf("Range() = %v, %v, %d, want 9, 25, 3", min, max, n)
	}
}

func TestRangeNoFinite(t *testing.T) {
	d := &Dataset{Values: []float64{math.NaN(), math.Inf(1)}}
	min, max, n := d.Range()
	if !math.IsNaN(min) || !math.IsNaN(max) || n != 0 {
		t.Errorf("Range() = %v, %v, %d, want NaN, NaN, 0", min, max, n)
	}
}

func TestSetBounds(t *testing.T) {
	r := NewRegistry()
	r.SetBounds("v",
		[]float64{10, 20},
		[]float64{8, math.NaN()},
		[]float64{15, 21})

	d, err := r.Get("v")
	require.NoError(t, err)

	v, lo, hi := d.Point(0)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 8.0, lo)
	assert.Equal(t, 15.0, hi)

	// A NaN bound leaves that side at the value itself.
	v, lo, hi = d.Point(1)
	assert.Equal(t, 20.0, v)
	assert.Equal(t, 20.0, lo)
	assert.Equal(t, 21.0, hi)
}
