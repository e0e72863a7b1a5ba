package dataset

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// A DeriveFunc computes a derived dataset from the current values of
// its dependencies, in the order the dependencies were declared. It
// must be pure: same inputs, same output.
type DeriveFunc func(deps ...[]float64) []float64

// derivation describes how a derived dataset is computed.
type derivation struct {
	deps []string
	fn   DeriveFunc
}

// A Registry holds all datasets of one document. It is safe for
// concurrent use: any number of readers share the registry while
// writers are exclusive. Readers always observe fully-installed
// datasets, never a mutation in progress.
type Registry struct {
	mu      sync.RWMutex
	sets    map[string]*Dataset
	derived map[string]*derivation
	version int64
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sets:    make(map[string]*Dataset),
		derived: make(map[string]*derivation),
	}
}

// Version returns the registry-wide edit counter. It is bumped by
// every successful Set, SetDerived, Append and Delete.
func (r *Registry) Version() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Get returns the dataset stored under name. The returned dataset
// must not be modified.
func (r *Registry) Get(name string) (*Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.sets[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return d, nil
}

// Names returns all dataset names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.sets))
	for n := range r.sets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dependencies returns the declared dependencies of name. A plain
// dataset has none.
func (r *Registry) Dependencies(name string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.derived[name]
	if !ok {
		return nil
	}
	return append([]string(nil), d.deps...)
}

// Set installs a plain numeric dataset with optional error arrays.
// err may hold zero entries (no errors), one (symmetric) or two
// (minus, plus). Dependent derived datasets are recomputed.
func (r *Registry) Set(name string, values []float64, err ...[]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &Dataset{Name: name, Kind: Numeric}
	d.Values = append([]float64(nil), values...)
	switch len(err) {
	case 0:
	case 1:
		d.ErrPlus = append([]float64(nil), err[0]...)
		d.ErrMinus = append([]float64(nil), err[0]...)
	default:
		d.ErrMinus = append([]float64(nil), err[0]...)
		d.ErrPlus = append([]float64(nil), err[1]...)
	}
	delete(r.derived, name)
	r.install(name, d)
}

// SetBounds installs a numeric dataset whose error extents are given
// as absolute lower and upper bounds instead of offsets. Bounds are
// converted to per-point error magnitudes; a NaN bound means no
// extent on that side.
func (r *Registry) SetBounds(name string, values, lo, hi []float64) {
	minus := make([]float64, len(values))
	plus := make([]float64, len(values))
	for i, v := range values {
		if i < len(lo) && !math.IsNaN(lo[i]) {
			minus[i] = v - lo[i]
		}
		if i < len(hi) && !math.IsNaN(hi[i]) {
			plus[i] = hi[i] - v
		}
	}
	r.Set(name, values, minus, plus)
}

// SetText installs a text dataset.
func (r *Registry) SetText(name string, strings []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := &Dataset{Name: name, Kind: Text}
	d.Strings = append([]string(nil), strings...)
	delete(r.derived, name)
	r.install(name, d)
}

// SetDerived installs a derived dataset computed by fn from deps.
// The edit is rejected with a CyclicError if it would make the
// dependency graph cyclic; in that case the previous state of name
// is retained. Unknown dependencies are allowed and treated as empty
// until they appear.
func (r *Registry) SetDerived(name string, deps []string, fn DeriveFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cycle := r.findCycle(name, deps); cycle != nil {
		return &CyclicError{Name: name, Cycle: cycle}
	}
	r.derived[name] = &derivation{deps: append([]string(nil), deps...), fn: fn}
	old := r.sets[name]
	d := &Dataset{Name: name, Kind: Numeric, Values: r.evaluate(name)}
	if old != nil {
		d.Version = old.Version
	}
	r.install(name, d)
	return nil
}

// Append extends a captured numeric dataset by values, creating it if
// necessary, and recomputes dependents.
func (r *Registry) Append(name string, values ...float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old := r.sets[name]
	d := &Dataset{Name: name, Kind: Numeric}
	if old != nil {
		d.Version = old.Version
		d.Values = append(append([]float64(nil), old.Values...), values...)
	} else {
		d.Values = append([]float64(nil), values...)
	}
	r.install(name, d)
}

// Delete removes name. Derived datasets depending on it re-evaluate
// against an empty array.
func (r *Registry) Delete(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.sets[name]
	if !ok {
		return
	}
	delete(r.sets, name)
	delete(r.derived, name)
	r.version++
	r.recomputeDependents(old.Name)
}

// install stores d under name with the next version and recomputes
// all transitive dependents in topological order. Caller holds mu.
func (r *Registry) install(name string, d *Dataset) {
	d.Version++
	if old := r.sets[name]; old != nil && old.Version >= d.Version {
		d.Version = old.Version + 1
	}
	r.sets[name] = d
	r.version++
	r.recomputeDependents(name)
}

// recomputeDependents re-evaluates every derived dataset reachable
// from name, dependencies before dependents. Caller holds mu.
func (r *Registry) recomputeDependents(name string) {
	order := r.dependentOrder(name)
	for _, dep := range order {
		old := r.sets[dep]
		d := &Dataset{Name: dep, Kind: Numeric, Values: r.evaluate(dep)}
		if old != nil {
			d.Version = old.Version
		}
		d.Version++
		r.sets[dep] = d
	}
}

// dependentOrder returns the derived datasets that transitively
// depend on name, topologically sorted. Names are visited in sorted
// order so the result is deterministic. Caller holds mu.
func (r *Registry) dependentOrder(name string) []string {
	affected := map[string]bool{}
	var mark func(string)
	mark = func(n string) {
		names := make([]string, 0, len(r.derived))
		for dn := range r.derived {
			names = append(names, dn)
		}
		sort.Strings(names)
		for _, dn := range names {
			if affected[dn] {
				continue
			}
			for _, dep := range r.derived[dn].deps {
				if dep == n {
					affected[dn] = true
					mark(dn)
					break
				}
			}
		}
	}
	mark(name)

	var order []string
	done := map[string]bool{}
	var visit func(string)
	visit = func(n string) {
		if done[n] {
			return
		}
		done[n] = true
		if der, ok := r.derived[n]; ok {
			for _, dep := range der.deps {
				if affected[dep] {
					visit(dep)
				}
			}
		}
		if affected[n] {
			order = append(order, n)
		}
	}
	names := make([]string, 0, len(affected))
	for n := range affected {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		visit(n)
	}
	return order
}

// evaluate computes the current values of the derived dataset name.
// Missing dependencies evaluate as empty arrays. Caller holds mu.
func (r *Registry) evaluate(name string) []float64 {
	der := r.derived[name]
	if der == nil {
		return nil
	}
	args := make([][]float64, len(der.deps))
	for i, dep := range der.deps {
		if d, ok := r.sets[dep]; ok {
			args[i] = d.Values
		}
	}
	return der.fn(args...)
}

// findCycle reports the cycle that installing name with deps would
// create, or nil. Caller holds mu.
func (r *Registry) findCycle(name string, deps []string) []string {
	// Walk from each proposed dependency through the existing graph
	// looking for a path back to name.
	var path []string
	var walk func(n string) bool
	walk = func(n string) bool {
		path = append(path, n)
		if n == name {
			return true
		}
		if der, ok := r.derived[n]; ok {
			for _, dep := range der.deps {
				if walk(dep) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		return false
	}
	for _, dep := range deps {
		path = path[:0]
		if walk(dep) {
			return append([]string{name}, path...)
		}
	}
	return nil
}

// A View is an immutable snapshot of a registry: a fixed mapping from
// names to dataset versions taken under the read lock. Renders work
// against a View so no edit can change the data mid-render.
type View struct {
	sets    map[string]*Dataset
	version int64
}

// Snapshot captures the current state of r.
func (r *Registry) Snapshot() *View {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v := &View{sets: make(map[string]*Dataset, len(r.sets)), version: r.version}
	for n, d := range r.sets {
		v.sets[n] = d
	}
	return v
}

// Version returns the registry version the view was taken at.
func (v *View) Version() int64 { return v.version }

// Get returns the dataset stored under name at snapshot time.
func (v *View) Get(name string) (*Dataset, error) {
	d, ok := v.sets[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return d, nil
}

func (v *View) String() string {
	return fmt.Sprintf("dataset.View{%d sets, version %d}", len(v.sets), v.version)
}
