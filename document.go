package plotdoc

import (
	"sync"

	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/widget"
)

// A Document is one plot document: the widget tree plus its dataset
// registry. All edits go through Edit, which serializes them and
// bumps the document version; readers take a Snapshot and work on
// that, so a long render never blocks the next edit.
type Document struct {
	mu       sync.Mutex
	root     *widget.Node
	reg      *dataset.Registry
	version  int64
	onChange []func(version int64)
}

// New creates an empty document: a root node and an empty registry.
func New() *Document {
	return &Document{
		root: widget.NewRoot(),
		reg:  dataset.NewRegistry(),
	}
}

// Edit runs f with exclusive access to the tree and the registry.
// When f returns nil the document version is bumped and the change
// listeners fire; when f fails the version stays, but partial
// mutations made by f are NOT rolled back, so f should validate
// before mutating.
func (d *Document) Edit(f func(root *widget.Node, data *dataset.Registry) error) error {
	d.mu.Lock()
	err := f(d.root, d.reg)
	var (
		version   int64
		listeners []func(int64)
	)
	if err == nil {
		d.version++
		version = d.version
		listeners = append(listeners, d.onChange...)
	}
	d.mu.Unlock()

	for _, l := range listeners {
		l(version)
	}
	return err
}

// Version returns the current document version. Version 0 is the
// empty document.
func (d *Document) Version() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// OnChange registers a listener called after every successful edit,
// outside the document lock.
func (d *Document) OnChange(f func(version int64)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onChange = append(d.onChange, f)
}

// A Snapshot is a consistent, immutable view of a document version:
// a deep copy of the tree and a frozen view of the datasets.
type Snapshot struct {
	Root    *widget.Node
	Data    *dataset.View
	Version int64
}

// Snapshot captures the current document state. The returned tree is
// a deep clone (node IDs preserved) and safe to walk concurrently
// with further edits.
func (d *Document) Snapshot() *Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return &Snapshot{
		Root:    d.root.Clone(),
		Data:    d.reg.Snapshot(),
		Version: d.version,
	}
}
