package model

import "math"

// Direction is the reading direction of a text fragment.
type Direction int

const (
	// DirectionHorizontal is ordinary left-to-right text.
	DirectionHorizontal Direction = iota
	// DirectionVertical is text rotated by 90 degrees.
	DirectionVertical
)

func (d Direction) String() string {
	switch d {
	case DirectionHorizontal:
		return "horizontal"
	case DirectionVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Char is a single positioned glyph inside a text fragment.
type Char struct {
	Text string
	BBox BBox
}

// Size returns the glyph size along the reading direction's cross axis:
// the height for horizontal text and the width for vertical text.
func (c Char) Size(d Direction) float64 {
	if d == DirectionVertical {
		return c.BBox.Width
	}
	return c.BBox.Height
}

// TextFragment represents a positioned piece of text
type TextFragment struct {
	Text      string
	BBox      BBox
	Direction Direction
	FontSize  float64
	FontName  string

	// Per-glyph geometry. Optional; needed to split a fragment across cells
	// or to flag differently sized glyphs.
	Chars []Char
}

// X0 returns the left edge of the fragment.
func (f TextFragment) X0() float64 { return f.BBox.Left() }

// Y0 returns the bottom edge of the fragment.
func (f TextFragment) Y0() float64 { return f.BBox.Bottom() }

// X1 returns the right edge of the fragment.
func (f TextFragment) X1() float64 { return f.BBox.Right() }

// Y1 returns the top edge of the fragment.
func (f TextFragment) Y1() float64 { return f.BBox.Top() }

// Orientation classifies a ruling segment.
type Orientation int

const (
	OrientationOblique Orientation = iota
	OrientationHorizontal
	OrientationVertical
)

// Segment is a straight ruling line between two endpoints.
type Segment struct {
	X0, Y0, X1, Y1 float64
}

// Orientation reports whether the segment is horizontal, vertical or
// neither. Degenerate (single point) segments are oblique.
func (s Segment) Orientation() Orientation {
	dx := math.Abs(s.X1 - s.X0)
	dy := math.Abs(s.Y1 - s.Y0)
	switch {
	case dx == 0 && dy == 0:
		return OrientationOblique
	case dy == 0:
		return OrientationHorizontal
	case dx == 0:
		return OrientationVertical
	default:
		return OrientationOblique
	}
}

// Normalize orders the endpoints so that X0 <= X1 and Y0 <= Y1.
func (s Segment) Normalize() Segment {
	return Segment{
		X0: math.Min(s.X0, s.X1), Y0: math.Min(s.Y0, s.Y1),
		X1: math.Max(s.X0, s.X1), Y1: math.Max(s.Y0, s.Y1),
	}
}

// SplitSegments partitions segments into vertical and horizontal ones,
// normalizing each. Oblique segments are dropped.
func SplitSegments(segments []Segment) (vertical, horizontal []Segment) {
	for _, s := range segments {
		switch s.Orientation() {
		case OrientationVertical:
			vertical = append(vertical, s.Normalize())
		case OrientationHorizontal:
			horizontal = append(horizontal, s.Normalize())
		}
	}
	return vertical, horizontal
}
