// Package export replays primitive streams onto the vg backends and
// writes the common vector and raster formats.
package export

import (
	"fmt"
	"image"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/vdobler/plotdoc/render"
)

// Replay draws the primitives of one page onto c. Clipping is done
// geometrically: paths and polygons are clipped against the current
// clip rectangle before they reach the backend, images are cropped,
// so every backend produces the same picture even though vg has no
// native clip support.
func Replay(c vg.Canvas, size vg.Point, prims []render.Primitive, f FontSource) error {
	base := draw.Canvas{
		Canvas:    c,
		Rectangle: vg.Rectangle{Max: size},
	}
	// The clip stack holds the intersected clip rectangle per level.
	clip := []vg.Rectangle{base.Rectangle}

	for i := range prims {
		pr := &prims[i]
		switch pr.Op {
		case render.OpClipPush:
			clip = append(clip, intersect(clip[len(clip)-1], pr.Rect))
		case render.OpClipPop:
			if len(clip) <= 1 {
				return fmt.Errorf("export: clip pop below document level")
			}
			clip = clip[:len(clip)-1]
		case render.OpPath:
			replayPath(base, clip[len(clip)-1], pr)
		case render.OpText:
			if err := replayText(c, pr, f); err != nil {
				return err
			}
		case render.OpImage:
			replayImage(c, clip[len(clip)-1], pr)
		}
	}
	if len(clip) != 1 {
		return fmt.Errorf("export: %d unclosed clip levels", len(clip)-1)
	}
	return nil
}

// FontSource resolves font specs to vg fonts. The cache lives with
// the caller so repeated exports share it.
type FontSource func(name string, size vg.Length) (vg.Font, error)

// MakeFont is the stock FontSource.
func MakeFont(name string, size vg.Length) (vg.Font, error) {
	return vg.MakeFont(name, size)
}

func intersect(a, b vg.Rectangle) vg.Rectangle {
	r := vg.Rectangle{
		Min: vg.Point{X: max(a.Min.X, b.Min.X), Y: max(a.Min.Y, b.Min.Y)},
		Max: vg.Point{X: min(a.Max.X, b.Max.X), Y: min(a.Max.Y, b.Max.Y)},
	}
	if r.Min.X > r.Max.X {
		r.Max.X = r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Max.Y = r.Min.Y
	}
	return r
}

func min(a, b vg.Length) vg.Length {
	if a < b {
		return a
	}
	return b
}

func max(a, b vg.Length) vg.Length {
	if a > b {
		return a
	}
	return b
}

func replayPath(base draw.Canvas, clip vg.Rectangle, pr *render.Primitive) {
	dc := draw.Canvas{Canvas: base.Canvas, Rectangle: clip}
	pts := pr.Points
	if pr.Closed && len(pts) > 2 {
		if pr.Fill.A > 0 {
			dc.FillPolygon(pr.Fill, dc.ClipPolygonXY(pts))
		}
		// Close the outline for stroking.
		pts = append(append([]vg.Point(nil), pts...), pts[0])
	}
	if pr.Stroke != nil && pr.Stroke.Width > 0 {
		sty := draw.LineStyle{
			Color:    pr.Stroke.Color,
			Width:    pr.Stroke.Width,
			Dashes:   pr.Stroke.Dashes,
			DashOffs: pr.Stroke.DashOffs,
		}
		dc.StrokeLines(sty, dc.ClipLinesXY(pts)...)
	}
}

func replayText(c vg.Canvas, pr *render.Primitive, f FontSource) error {
	fnt, err := f(pr.Font.Name, pr.Font.Size)
	if err != nil {
		return fmt.Errorf("export: font %q: %w", pr.Font.Name, err)
	}
	c.SetColor(pr.Color)
	if pr.Rot != 0 {
		c.Push()
		c.Translate(pr.At)
		c.Rotate(pr.Rot)
		c.FillString(fnt, vg.Point{}, pr.Text)
		c.Pop()
		return nil
	}
	c.FillString(fnt, pr.At, pr.Text)
	return nil
}

func replayImage(c vg.Canvas, clip vg.Rectangle, pr *render.Primitive) {
	rect := intersect(pr.Rect, clip)
	if rect.Max.X <= rect.Min.X || rect.Max.Y <= rect.Min.Y {
		return
	}
	img := pr.Img
	if rect != pr.Rect {
		img = cropImage(pr.Img, pr.Rect, rect)
		if img == nil {
			return
		}
	}
	c.DrawImage(rect, img)
}

// cropImage cuts the part of img that maps onto sub out of the full
// destination rectangle.
func cropImage(img image.Image, full, sub vg.Rectangle) image.Image {
	b := img.Bounds()
	fw := float64(full.Max.X - full.Min.X)
	fh := float64(full.Max.Y - full.Min.Y)
	if fw <= 0 || fh <= 0 {
		return nil
	}
	// Destination y grows upward, image y downward.
	x0 := b.Min.X + int(float64(sub.Min.X-full.Min.X)/fw*float64(b.Dx()))
	x1 := b.Min.X + int(float64(sub.Max.X-full.Min.X)/fw*float64(b.Dx())+0.5)
	y0 := b.Min.Y + int(float64(full.Max.Y-sub.Max.Y)/fh*float64(b.Dy()))
	y1 := b.Min.Y + int(float64(full.Max.Y-sub.Min.Y)/fh*float64(b.Dy())+0.5)
	r := image.Rect(x0, y0, x1, y1).Intersect(b)
	if r.Empty() {
		return nil
	}
	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	si, ok := img.(subImager)
	if !ok {
		return img
	}
	return si.SubImage(r)
}
