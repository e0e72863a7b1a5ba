package render

import (
	"image"
	"math"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/scale"
	"github.com/vdobler/plotdoc/widget"
)

func init() {
	registerElement(widget.Image, rangeImage, emitImage)
}

// cellEdges converts n cell center coordinates into n+1 cell edges.
func cellEdges(centers []float64, n int) []float64 {
	edges := make([]float64, n+1)
	if n == 1 {
		edges[0], edges[1] = centers[0]-0.5, centers[0]+0.5
		return edges
	}
	for i := 1; i < n; i++ {
		edges[i] = (centers[i-1] + centers[i]) / 2
	}
	edges[0] = centers[0] - (edges[1]-centers[0])
	edges[n] = centers[n-1] + (centers[n-1] - edges[n-1])
	return edges
}

func rangeImage(p *pass, n *widget.Node) (xext, yext scale.Extents, err error) {
	xext, yext = scale.NewExtents(), scale.NewExtents()
	gd, err := decodeGrid(p, n)
	if err != nil {
		return xext, yext, err
	}
	xe := cellEdges(gd.x, gd.cols)
	ye := cellEdges(gd.y, gd.rows)
	xext.Add(xe[0], xe[len(xe)-1])
	yext.Add(ye[0], ye[len(ye)-1])
	return xext, yext, nil
}

// emitImage renders the grid as one color-mapped raster primitive.
// The pixel grid is one pixel per cell; the backend scales it into
// the destination rectangle. Grid row 0 is the bottom row, image row
// 0 the top one, so rows flip.
func emitImage(p *pass, g *graphCtx, n *widget.Node) {
	gd, err := decodeGrid(p, n)
	if err != nil {
		p.warn(n.ID(), err)
		return
	}
	cm := ColorMapByName(n.Str(widget.KeyColorMap, ""))
	if !(gd.zmin < gd.zmax) {
		gd.zmax = gd.zmin + 1
	}
	cm.SetMin(gd.zmin)
	cm.SetMax(gd.zmax)

	img := image.NewRGBA(image.Rect(0, 0, gd.cols, gd.rows))
	for r := 0; r < gd.rows; r++ {
		for c := 0; c < gd.cols; c++ {
			v := gd.at(r, c)
			if math.IsNaN(v) {
				continue // transparent
			}
			col, err := cm.At(v)
			if err != nil {
				continue
			}
			img.Set(c, gd.rows-1-r, toRGBA(col))
		}
	}

	xe := cellEdges(gd.x, gd.cols)
	ye := cellEdges(gd.y, gd.rows)
	min := g.point(xe[0], ye[0])
	max := g.point(xe[len(xe)-1], ye[len(ye)-1])
	if !finitePoint(min) || !finitePoint(max) {
		return
	}
	p.stream.add(Primitive{
		Op:   OpImage,
		Node: n.ID(),
		Img:  img,
		Rect: vg.Rectangle{Min: min, Max: max},
	})
}
