// +build ignore

package main

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc"
	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/widget"
)

func main() {
	doc := plotdoc.New()

	err := doc.Edit(func(root *widget.Node, data *dataset.Registry) error {
		n := 60
		xs := make([]float64, n)
		ys := make([]float64, n)
		es := make([]float64, n)
		for i := range xs {
			xs[i] = float64(i) / 6
			ys[i] = math.Sin(xs[i]) * math.Exp(-xs[i]/8)
			es[i] = 0.05
		}
		data.Set("x", xs)
		data.Set("y", ys, es)
		data.SetDerived("y2", []string{"y"}, func(deps ...[]float64) []float64 {
			out := make([]float64, len(deps[0]))
			for i, v := range deps[0] {
				out[i] = v * v
			}
			return out
		})

		page := widget.NewNode(widget.Page, "page1")
		graph := widget.NewNode(widget.Graph, "graph1")
		ax := widget.NewNode(widget.Axis, "x")
		ay := widget.NewNode(widget.Axis, "y")
		curve := widget.NewNode(widget.XY, "damped")
		squared := widget.NewNode(widget.XY, "squared")

		steps := []error{
			root.AddChild(page),
			page.AddChild(graph),
			graph.AddChild(ax),
			graph.AddChild(ay),
			graph.AddChild(curve),
			graph.AddChild(squared),
			graph.SetProperty(widget.KeyTitle, widget.String("Damped sine y = sin(x) e^{-x/8}")),
			ax.SetProperty(widget.KeyDirection, widget.String("horizontal")),
			ax.SetProperty(widget.KeyAxisLabel, widget.String("x")),
			ay.SetProperty(widget.KeyDirection, widget.String("vertical")),
			ay.SetProperty(widget.KeyAxisLabel, widget.String("amplitude")),
			ay.SetProperty(widget.KeyGridLines, widget.Bool(true)),
			curve.SetProperty(widget.KeyXData, widget.DatasetRef("x")),
			curve.SetProperty(widget.KeyYData, widget.DatasetRef("y")),
			curve.SetProperty(widget.KeyMarker, widget.String("circle")),
			squared.SetProperty(widget.KeyXData, widget.DatasetRef("x")),
			squared.SetProperty(widget.KeyYData, widget.DatasetRef("y2")),
			squared.SetProperty(widget.KeyDashes, widget.Floats(4, 2)),
		}
		for _, err := range steps {
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s := plotdoc.NewScheduler(doc, plotdoc.SchedulerOptions{
		Size: vg.Point{X: 600, Y: 450},
	})
	defer s.Close()

	if err := s.Export("demo.png"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println("wrote demo.png")
}
