package render

import (
	"image/color"
	"math"

	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/layout"
)

// A Style controls the appearance of everything a document does not
// configure per widget. Zero-valued documents render with
// DefaultStyle.
type Style struct {
	BaseFont   string
	Background color.RGBA

	Title struct {
		Size  vg.Length
		Color color.RGBA
	}

	Axis struct {
		Color         color.RGBA
		Width         vg.Length
		TickLength    vg.Length
		TickLabelSize vg.Length
		LabelSize     vg.Length
		Grid          struct {
			Color color.RGBA
			Width vg.Length
		}
	}

	Element struct {
		Color      color.RGBA
		FillColor  color.RGBA
		LineWidth  vg.Length
		MarkerSize vg.Length
	}

	Pad vg.Length

	// Functions resolves the names a Function widget may reference.
	// The expression language itself is not part of the engine; a
	// function is a black box from float64 to float64.
	Functions map[string]func(float64) float64
}

// DefaultStyle returns the stock appearance for the given base font
// size. Titles come out a bit bigger, tick labels a bit smaller.
func DefaultStyle(baseFontSize vg.Length) *Style {
	scale := func(f float64) vg.Length {
		return vg.Length(math.Round(f * float64(baseFontSize)))
	}

	s := &Style{BaseFont: "Helvetica"}
	s.Background = color.RGBA{0xff, 0xff, 0xff, 0xff}

	s.Title.Size = scale(1.2)
	s.Title.Color = color.RGBA{A: 0xff}

	s.Axis.Color = color.RGBA{A: 0xff}
	s.Axis.Width = 1
	s.Axis.TickLength = scale(0.4)
	s.Axis.TickLabelSize = scale(1 / 1.2)
	s.Axis.LabelSize = baseFontSize
	s.Axis.Grid.Color = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	s.Axis.Grid.Width = 0.5

	s.Element.Color = color.RGBA{0x33, 0x66, 0xbb, 0xff}
	s.Element.FillColor = color.RGBA{0x33, 0x66, 0xbb, 0x80}
	s.Element.LineWidth = 1
	s.Element.MarkerSize = scale(0.25)

	s.Pad = scale(0.4)

	s.Functions = map[string]func(float64) float64{
		"sin":  math.Sin,
		"cos":  math.Cos,
		"tan":  math.Tan,
		"exp":  math.Exp,
		"log":  math.Log,
		"sqrt": math.Sqrt,
		"abs":  math.Abs,
	}
	return s
}

// Metrics builds the text metrics the layout engine needs.
func (s *Style) Metrics() (layout.Metrics, error) {
	tick, err := vg.MakeFont(s.BaseFont, s.Axis.TickLabelSize)
	if err != nil {
		return layout.Metrics{}, err
	}
	label, err := vg.MakeFont(s.BaseFont, s.Axis.LabelSize)
	if err != nil {
		return layout.Metrics{}, err
	}
	title, err := vg.MakeFont(s.BaseFont, s.Title.Size)
	if err != nil {
		return layout.Metrics{}, err
	}
	return layout.Metrics{
		TickFont:   tick,
		LabelFont:  label,
		TitleFont:  title,
		TickLength: s.Axis.TickLength,
		Pad:        s.Pad,
	}, nil
}

// ColorMapByName resolves the colormap names the contour and image
// elements accept. Unknown names get the default map.
func ColorMapByName(name string) palette.ColorMap {
	switch name {
	case "bluered":
		return moreland.SmoothBlueRed()
	case "blackbody":
		return moreland.BlackBody()
	case "extended":
		return moreland.ExtendedKindlmann()
	}
	return moreland.Kindlmann()
}
