package render

import (
	"fmt"
	"math"

	"github.com/vdobler/plotdoc/widget"
)

// gridData is a decoded two-dimensional dataset: z values in row-major
// order plus the x coordinate per column and y coordinate per row.
// Row 0 is the bottom row.
type gridData struct {
	z          []float64
	cols, rows int
	x, y       []float64
	zmin, zmax float64
}

func (gd *gridData) at(r, c int) float64 { return gd.z[r*gd.cols+c] }

// decodeGrid reads the grid properties of a contour or image node.
// Without explicit coordinate datasets the cells sit at 0..cols-1 and
// 0..rows-1.
func decodeGrid(p *pass, n *widget.Node) (*gridData, error) {
	zd, err := p.values(n, widget.KeyZData)
	if err != nil {
		return nil, err
	}
	cols := n.Int(widget.KeyGridCols, 0)
	if cols <= 0 {
		return nil, fmt.Errorf("render: %s %q needs gridColumns > 0", n.Kind(), n.Name())
	}
	rows := zd.Len() / cols
	if rows == 0 {
		return nil, fmt.Errorf("render: %s %q has fewer values than one row", n.Kind(), n.Name())
	}
	gd := &gridData{z: zd.Values[:rows*cols], cols: cols, rows: rows}

	if name := n.Dataset(widget.KeyXData); name != "" {
		xd, err := p.view.Get(name)
		if err != nil {
			return nil, err
		}
		gd.x = xd.Values
	}
	if len(gd.x) < cols {
		gd.x = indexCoords(cols)
	}
	if name := n.Dataset(widget.KeyYData); name != "" {
		yd, err := p.view.Get(name)
		if err != nil {
			return nil, err
		}
		gd.y = yd.Values
	}
	if len(gd.y) < rows {
		gd.y = indexCoords(rows)
	}

	gd.zmin, gd.zmax = math.Inf(1), math.Inf(-1)
	for _, v := range gd.z {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < gd.zmin {
			gd.zmin = v
		}
		if v > gd.zmax {
			gd.zmax = v
		}
	}
	return gd, nil
}

func indexCoords(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}
