package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgeps"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/vdobler/plotdoc/render"
)

// Format selects the output backend.
type Format int

const (
	PNG Format = iota
	SVG
	PDF
	EPS
)

func (f Format) String() string {
	return []string{"png", "svg", "pdf", "eps"}[f]
}

// FormatByExtension maps a file extension (with or without dot) to
// its format.
func FormatByExtension(ext string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "png":
		return PNG, nil
	case "svg":
		return SVG, nil
	case "pdf":
		return PDF, nil
	case "eps":
		return EPS, nil
	}
	return 0, fmt.Errorf("export: unknown format %q", ext)
}

// Write renders one page of the stream in the given format. The page
// index counts from zero.
func Write(w io.Writer, s *render.Stream, page int, size vg.Point, format Format) error {
	if page < 0 || page >= s.Pages() {
		return fmt.Errorf("export: page %d of %d", page, s.Pages())
	}
	prims := s.PagePrims(page)

	switch format {
	case PNG:
		c := vgimg.New(size.X, size.Y)
		if err := Replay(c, size, prims, MakeFont); err != nil {
			return err
		}
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
		return err
	case SVG:
		c := vgsvg.New(size.X, size.Y)
		if err := Replay(c, size, prims, MakeFont); err != nil {
			return err
		}
		_, err := c.WriteTo(w)
		return err
	case PDF:
		c := vgpdf.New(size.X, size.Y)
		if err := Replay(c, size, prims, MakeFont); err != nil {
			return err
		}
		_, err := c.WriteTo(w)
		return err
	case EPS:
		c := vgeps.New(size.X, size.Y)
		if err := Replay(c, size, prims, MakeFont); err != nil {
			return err
		}
		_, err := c.WriteTo(w)
		return err
	}
	return fmt.Errorf("export: unknown format %d", format)
}

// WriteFile writes one page to path, picking the format from the
// file extension.
func WriteFile(path string, s *render.Stream, page int, size vg.Point) error {
	format, err := FormatByExtension(filepath.Ext(path))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, page, size, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteFormats writes the first page of the stream to stem.<ext> for
// every requested format, all formats concurrently.
func WriteFormats(stem string, s *render.Stream, size vg.Point, formats ...Format) error {
	var g errgroup.Group
	for _, format := range formats {
		format := format
		g.Go(func() error {
			return WriteFile(fmt.Sprintf("%s.%s", stem, format), s, 0, size)
		})
	}
	return g.Wait()
}

// WriteAll writes every page of the stream, one file per page. The
// page index is inserted before the extension ("plot.png" becomes
// "plot-1.png", "plot-2.png", ...); a single-page stream keeps the
// plain name. Pages are written concurrently.
func WriteAll(path string, s *render.Stream, size vg.Point) error {
	n := s.Pages()
	if n == 0 {
		return fmt.Errorf("export: stream has no pages")
	}
	if n == 1 {
		return WriteFile(path, s, 0, size)
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	var g errgroup.Group
	for page := 0; page < n; page++ {
		page := page
		g.Go(func() error {
			name := fmt.Sprintf("%s-%d%s", stem, page+1, ext)
			return WriteFile(name, s, page, size)
		})
	}
	return g.Wait()
}
