// Package plot renders a page and its detected tables to an image for
// visual debugging of detection results.
//
// Four kinds of overlay are available:
//
//   - KindText: text fragment boxes
//   - KindLine: the page's ruling segments
//   - KindGrid: table cells, solid where a ruling edge was found and dashed where not
//   - KindContour: each table's source region, one color per table
//
// Page coordinates have their origin at the bottom-left; the renderer flips
// them into image space.
package plot

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"strings"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/tsawler/gridscan/model"
)

// Kind selects one overlay.
type Kind string

const (
	KindText    Kind = "text"
	KindLine    Kind = "line"
	KindGrid    Kind = "grid"
	KindContour Kind = "contour"
)

// AllKinds lists every overlay in drawing order.
var AllKinds = []Kind{KindText, KindLine, KindGrid, KindContour}

// ParseKinds converts a comma separated list of kind names.
func ParseKinds(s string) ([]Kind, error) {
	var kinds []Kind
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(strings.ToLower(name))
		if name == "" {
			continue
		}
		switch k := Kind(name); k {
		case KindText, KindLine, KindGrid, KindContour:
			kinds = append(kinds, k)
		default:
			return nil, fmt.Errorf("unknown plot kind %q", name)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("no plot kinds in %q", s)
	}
	return kinds, nil
}

// Options controls rendering.
type Options struct {
	Kinds     []Kind
	Scale     float64 // pixels per point
	LineWidth float64
}

// DefaultOptions draws every overlay at two pixels per point.
func DefaultOptions() Options {
	return Options{Kinds: AllKinds, Scale: 2, LineWidth: 1}
}

var (
	background = colorful.Color{R: 1, G: 1, B: 1}
	textColor  = colorful.Color{R: 0.55, G: 0.55, B: 0.55}
	lineColor  = colorful.Color{R: 0.1, G: 0.1, B: 0.1}
)

// TableColor returns the overlay color of the i-th table. Hues step by the
// golden angle so neighbouring tables stay distinguishable.
func TableColor(i int) colorful.Color {
	return colorful.Hsv(math.Mod(float64(i)*137.508, 360), 0.75, 0.85)
}

type renderer struct {
	dc     *gg.Context
	height float64
	scale  float64
}

// Render draws the page with the requested overlays.
func Render(page *model.Page, tables []*model.Table, opts Options) (image.Image, error) {
	dc, err := draw(page, tables, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG renders the page and encodes it as PNG.
func WritePNG(w io.Writer, page *model.Page, tables []*model.Table, opts Options) error {
	dc, err := draw(page, tables, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func draw(page *model.Page, tables []*model.Table, opts Options) (*gg.Context, error) {
	if page == nil || page.Width <= 0 || page.Height <= 0 {
		return nil, errors.New("cannot plot a page without a size")
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", opts.Scale)
	}
	if len(opts.Kinds) == 0 {
		opts.Kinds = AllKinds
	}
	if opts.LineWidth <= 0 {
		opts.LineWidth = 1
	}

	w := int(math.Ceil(page.Width * opts.Scale))
	h := int(math.Ceil(page.Height * opts.Scale))
	r := &renderer{dc: gg.NewContext(w, h), height: page.Height, scale: opts.Scale}
	r.dc.SetColor(background)
	r.dc.Clear()
	r.dc.SetLineWidth(opts.LineWidth)

	for _, kind := range opts.Kinds {
		switch kind {
		case KindText:
			r.dc.SetColor(textColor)
			for _, f := range page.Text {
				r.rect(f.BBox)
			}
			r.dc.Stroke()
		case KindLine:
			r.dc.SetColor(lineColor)
			for _, s := range page.Segments {
				r.line(s.X0, s.Y0, s.X1, s.Y1)
			}
			r.dc.Stroke()
		case KindGrid:
			for i, t := range tables {
				r.grid(t, TableColor(i))
			}
		case KindContour:
			for i, t := range tables {
				r.dc.SetColor(TableColor(i))
				r.rect(t.BBox)
				r.dc.Stroke()
			}
		}
	}
	return r.dc, nil
}

func (r *renderer) x(v float64) float64 { return v * r.scale }
func (r *renderer) y(v float64) float64 { return (r.height - v) * r.scale }

func (r *renderer) rect(b model.BBox) {
	r.dc.DrawRectangle(r.x(b.Left()), r.y(b.Top()), b.Width*r.scale, b.Height*r.scale)
}

func (r *renderer) line(x0, y0, x1, y1 float64) {
	r.dc.DrawLine(r.x(x0), r.y(y0), r.x(x1), r.y(y1))
}

// grid strokes each cell side, solid when the cell has that edge.
func (r *renderer) grid(t *model.Table, c colorful.Color) {
	r.dc.SetColor(c)
	for _, row := range t.Cells {
		for _, cell := range row {
			b := cell.BBox
			sides := []struct {
				edge           bool
				x0, y0, x1, y1 float64
			}{
				{cell.Left, b.Left(), b.Bottom(), b.Left(), b.Top()},
				{cell.Right, b.Right(), b.Bottom(), b.Right(), b.Top()},
				{cell.Top, b.Left(), b.Top(), b.Right(), b.Top()},
				{cell.Bottom, b.Left(), b.Bottom(), b.Right(), b.Bottom()},
			}
			for _, s := range sides {
				if s.edge {
					r.dc.SetDash()
				} else {
					r.dc.SetDash(3, 3)
				}
				r.line(s.x0, s.y0, s.x1, s.y1)
				r.dc.Stroke()
			}
		}
	}
	r.dc.SetDash()
}
