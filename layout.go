package gridscan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tsawler/gridscan/model"
)

// Layout is the JSON document a layout provider hands to gridscan. All
// coordinates are in points with the origin at the bottom-left of the page.
type Layout struct {
	Pages []LayoutPage `json:"pages"`
}

// LayoutPage is one page of a Layout.
type LayoutPage struct {
	Number   int             `json:"number,omitempty"`
	Width    float64         `json:"width"`
	Height   float64         `json:"height"`
	Text     []LayoutText    `json:"text,omitempty"`
	Images   []LayoutRect    `json:"images,omitempty"`
	Segments []LayoutSegment `json:"segments,omitempty"`
}

// LayoutRect is an axis-aligned rectangle given by its corners.
type LayoutRect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// LayoutText is a text fragment. Chars is optional per-glyph geometry.
type LayoutText struct {
	Text     string       `json:"text"`
	X0       float64      `json:"x0"`
	Y0       float64      `json:"y0"`
	X1       float64      `json:"x1"`
	Y1       float64      `json:"y1"`
	Vertical bool         `json:"vertical,omitempty"`
	FontSize float64      `json:"font_size,omitempty"`
	FontName string       `json:"font_name,omitempty"`
	Chars    []LayoutChar `json:"chars,omitempty"`
}

// LayoutChar is a single glyph of a LayoutText.
type LayoutChar struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
}

// LayoutSegment is a ruling line between two points.
type LayoutSegment struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// ReadLayout validates a JSON layout document against the layout schema and
// decodes it into pages.
func ReadLayout(r io.Reader) ([]*model.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read layout: %w", err)
	}
	if err := ValidateLayout(data); err != nil {
		return nil, err
	}

	var doc Layout
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode layout: %w", err)
	}
	return doc.ToPages()
}

// ToPages converts the document into model pages. Pages without a number
// are numbered by position.
func (l *Layout) ToPages() ([]*model.Page, error) {
	pages := make([]*model.Page, 0, len(l.Pages))
	for i, lp := range l.Pages {
		if lp.Width <= 0 || lp.Height <= 0 {
			return nil, fmt.Errorf("%w: page %d has size %gx%g", ErrInvalidLayout, i+1, lp.Width, lp.Height)
		}

		page := model.NewPage(lp.Width, lp.Height)
		page.Number = lp.Number
		if page.Number == 0 {
			page.Number = i + 1
		}

		for _, lt := range lp.Text {
			f := model.TextFragment{
				Text:     lt.Text,
				BBox:     model.NewBBoxFromCorners(lt.X0, lt.Y0, lt.X1, lt.Y1),
				FontSize: lt.FontSize,
				FontName: lt.FontName,
			}
			if lt.Vertical {
				f.Direction = model.DirectionVertical
			}
			for _, lc := range lt.Chars {
				f.Chars = append(f.Chars, model.Char{
					Text: lc.Text,
					BBox: model.NewBBoxFromCorners(lc.X0, lc.Y0, lc.X1, lc.Y1),
				})
			}
			page.Text = append(page.Text, f)
		}
		for _, r := range lp.Images {
			page.Images = append(page.Images, model.NewBBoxFromCorners(r.X0, r.Y0, r.X1, r.Y1))
		}
		for _, s := range lp.Segments {
			page.Segments = append(page.Segments, model.Segment{X0: s.X0, Y0: s.Y0, X1: s.X1, Y1: s.Y1})
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// WriteLayout encodes pages as a JSON layout document.
func WriteLayout(w io.Writer, pages []*model.Page) error {
	doc := Layout{Pages: make([]LayoutPage, 0, len(pages))}
	for _, p := range pages {
		lp := LayoutPage{Number: p.Number, Width: p.Width, Height: p.Height}
		for _, f := range p.Text {
			lt := LayoutText{
				Text: f.Text,
				X0:   f.X0(), Y0: f.Y0(), X1: f.X1(), Y1: f.Y1(),
				Vertical: f.Direction == model.DirectionVertical,
				FontSize: f.FontSize,
				FontName: f.FontName,
			}
			for _, c := range f.Chars {
				lt.Chars = append(lt.Chars, LayoutChar{
					Text: c.Text,
					X0:   c.BBox.Left(), Y0: c.BBox.Bottom(), X1: c.BBox.Right(), Y1: c.BBox.Top(),
				})
			}
			lp.Text = append(lp.Text, lt)
		}
		for _, b := range p.Images {
			lp.Images = append(lp.Images, LayoutRect{X0: b.Left(), Y0: b.Bottom(), X1: b.Right(), Y1: b.Top()})
		}
		for _, s := range p.Segments {
			lp.Segments = append(lp.Segments, LayoutSegment{X0: s.X0, Y0: s.Y0, X1: s.X1, Y1: s.Y1})
		}
		doc.Pages = append(doc.Pages, lp)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func numberPages(pages []*model.Page) []*model.Page {
	for i, p := range pages {
		if p != nil && p.Number == 0 {
			p.Number = i + 1
		}
	}
	return pages
}
