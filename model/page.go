package model

import "strings"

// Page is the layout of a single page as supplied by a layout provider.
type Page struct {
	Number int     // 1-indexed page number
	Width  float64 // Page width in points
	Height float64 // Page height in points

	Text     []TextFragment // Horizontal and vertical text fragments
	Images   []BBox         // Image regions, used only for diagnostics
	Segments []Segment      // Ruling lines, if a ruling source is available
}

// NewPage creates a new page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Width:  width,
		Height: height,
	}
}

// BBox returns the page bounds.
func (p *Page) BBox() BBox {
	return BBox{Width: p.Width, Height: p.Height}
}

// TextByDirection splits the page's fragments into horizontal and vertical
// text, dropping fragments with only whitespace.
func (p *Page) TextByDirection() (horizontal, vertical []TextFragment) {
	for _, f := range p.Text {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		if f.Direction == DirectionVertical {
			vertical = append(vertical, f)
		} else {
			horizontal = append(horizontal, f)
		}
	}
	return horizontal, vertical
}
