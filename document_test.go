package plotdoc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/widget"
)

func TestDocumentEditBumpsVersion(t *testing.T) {
	d := New()
	assert.EqualValues(t, 0, d.Version())

	err := d.Edit(func(root *widget.Node, data *dataset.Registry) error {
		data.Set("x", []float64{1, 2, 3})
		return root.AddChild(widget.NewNode(widget.Page, "p"))
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.Version())

	boom := errors.New("boom")
	err = d.Edit(func(*widget.Node, *dataset.Registry) error { return boom })
	assert.Equal(t, boom, err)
	assert.EqualValues(t, 1, d.Version(), "failed edit must not bump the version")
}

func TestDocumentOnChange(t *testing.T) {
	d := New()
	var got []int64
	d.OnChange(func(v int64) { got = append(got, v) })

	require.NoError(t, d.Edit(func(root *widget.Node, _ *dataset.Registry) error {
		return root.AddChild(widget.NewNode(widget.Page, "p"))
	}))
	require.NoError(t, d.Edit(func(root *widget.Node, _ *dataset.Registry) error {
		return nil
	}))
	assert.Equal(t, []int64{1, 2}, got)
}

func TestSnapshotIsolation(t *testing.T) {
	d := New()
	require.NoError(t, d.Edit(func(root *widget.Node, data *dataset.Registry) error {
		data.Set("x", []float64{1, 2})
		page := widget.NewNode(widget.Page, "p")
		if err := root.AddChild(page); err != nil {
			return err
		}
		return page.SetProperty(widget.KeyTitle, widget.String("before"))
	}))

	snap := d.Snapshot()
	assert.EqualValues(t, 1, snap.Version)

	require.NoError(t, d.Edit(func(root *widget.Node, data *dataset.Registry) error {
		data.Set("x", []float64{9, 9, 9})
		return root.Find("p").SetProperty(widget.KeyTitle, widget.String("after"))
	}))

	// The snapshot still sees the old state.
	assert.Equal(t, "before", snap.Root.Find("p").Str(widget.KeyTitle, ""))
	x, err := snap.Data.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, x.Values)

	// Node IDs survive cloning so snapshot nodes map back.
	assert.Equal(t, d.Snapshot().Root.Find("p").ID(), snap.Root.Find("p").ID())
}
