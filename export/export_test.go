package export

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/vdobler/plotdoc/dataset"
	"github.com/vdobler/plotdoc/render"
	"github.com/vdobler/plotdoc/widget"
)

func renderedStream(t *testing.T) *render.Stream {
	t.Helper()
	reg := dataset.NewRegistry()
	reg.Set("x", []float64{1, 2, 3})
	reg.Set("y", []float64{2, 1, 3})

	root := widget.NewRoot()
	page := widget.NewNode(widget.Page, "p")
	graph := widget.NewNode(widget.Graph, "g")
	ax := widget.NewNode(widget.Axis, "x")
	ay := widget.NewNode(widget.Axis, "y")
	xy := widget.NewNode(widget.XY, "c")
	root.AddChild(page)
	page.AddChild(graph)
	graph.AddChild(ax)
	graph.AddChild(ay)
	graph.AddChild(xy)
	ax.SetProperty(widget.KeyDirection, widget.String("horizontal"))
	ay.SetProperty(widget.KeyDirection, widget.String("vertical"))
	xy.SetProperty(widget.KeyXData, widget.DatasetRef("x"))
	xy.SetProperty(widget.KeyYData, widget.DatasetRef("y"))

	s, warnings, err := render.Render(context.Background(), root, reg.Snapshot(),
		vg.Point{X: 300, Y: 200}, render.Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings: %v", warnings)
	}
	return s
}

func TestWriteFormats(t *testing.T) {
	s := renderedStream(t)
	size := vg.Point{X: 300, Y: 200}

	for _, format := range []Format{PNG, SVG, PDF, EPS} {
		var buf bytes.Buffer
		if err := Write(&buf, s, 0, size, format); err != nil {
			t.Errorf("Write(%s): %v", format, err)
			continue
		}
		if buf.Len() == 0 {
			t.Errorf("Write(%s): empty output", format)
		}
	}
}

func TestWriteMagicBytes(t *testing.T) {
	s := renderedStream(t)
	size := vg.Point{X: 300, Y: 200}

	var png bytes.Buffer
	if err := Write(&png, s, 0, size, PNG); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png.Bytes(), []byte("\x89PNG")) {
		t.Error("PNG output has no PNG signature")
	}

	var svg bytes.Buffer
	if err := Write(&svg, s, 0, size, SVG); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(svg.String(), "<svg") {
		t.Error("SVG output has no <svg element")
	}

	var pdf bytes.Buffer
	if err := Write(&pdf, s, 0, size, PDF); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(pdf.Bytes(), []byte("%PDF")) {
		t.Error("PDF output has no PDF header")
	}
}

func TestWriteBadPage(t *testing.T) {
	s := renderedStream(t)
	var buf bytes.Buffer
	if err := Write(&buf, s, 1, vg.Point{X: 100, Y: 100}, PNG); err == nil {
		t.Error("no error for out-of-range page")
	}
}

func TestFormatByExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want Format
		ok   bool
	}{
		{".png", PNG, true},
		{"svg", SVG, true},
		{".PDF", PDF, true},
		{".eps", EPS, true},
		{".bmp", 0, false},
	}
	for _, c := range cases {
		got, err := FormatByExtension(c.ext)
		if c.ok && (err != nil || got != c.want) {
			t.Errorf("FormatByExtension(%q) = (%v, %v), want %v", c.ext, got, err, c.want)
		}
		if !c.ok && err == nil {
			t.Errorf("FormatByExtension(%q): no error", c.ext)
		}
	}
}

func TestWriteAll(t *testing.T) {
	s := renderedStream(t)
	dir := t.TempDir()
	if err := WriteAll(dir+"/plot.png", s, vg.Point{X: 200, Y: 150}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	// Single page keeps the plain name.
	if _, err := os.Stat(dir + "/plot.png"); err != nil {
		t.Errorf("plot.png not written: %v", err)
	}
}

func TestWriteFormatsFiles(t *testing.T) {
	s := renderedStream(t)
	dir := t.TempDir()
	stem := dir + "/plot"
	if err := WriteFormats(stem, s, vg.Point{X: 200, Y: 150}, PNG, SVG); err != nil {
		t.Fatalf("WriteFormats: %v", err)
	}
	for _, name := range []string{stem + ".png", stem + ".svg"} {
		fi, err := os.Stat(name)
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if fi.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}
