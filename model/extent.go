package model

import "math"

// Extent is a rectangle given by its corners (x0, y0, x1, y1) in page
// coordinates, origin bottom-left.
type Extent [4]float64

// X0 returns the left edge.
func (e Extent) X0() float64 { return e[0] }

// Y0 returns the bottom edge.
func (e Extent) Y0() float64 { return e[1] }

// X1 returns the right edge.
func (e Extent) X1() float64 { return e[2] }

// Y1 returns the top edge.
func (e Extent) Y1() float64 { return e[3] }

// Normalize swaps corners so that x0 <= x1 and y0 <= y1.
func (e Extent) Normalize() Extent {
	return Extent{
		math.Min(e[0], e[2]), math.Min(e[1], e[3]),
		math.Max(e[0], e[2]), math.Max(e[1], e[3]),
	}
}

// BBox converts the extent to a BBox.
func (e Extent) BBox() BBox {
	n := e.Normalize()
	return BBox{X: n[0], Y: n[1], Width: n[2] - n[0], Height: n[3] - n[1]}
}

// BoundingBox is a mutable box that starts out empty. An empty box is
// distinct from a zero-area box: it has no extent at all and contains
// nothing.
type BoundingBox struct {
	extent Extent
	set    bool
}

// NewBoundingBox returns a box seeded with extent.
func NewBoundingBox(extent Extent) *BoundingBox {
	b := &BoundingBox{}
	b.Set(extent)
	return b
}

// Set replaces the box with extent.
func (b *BoundingBox) Set(extent Extent) {
	b.extent = extent.Normalize()
	b.set = true
}

// Encompass grows the box to the union of its current extent and extent.
// On an empty box it behaves like Set.
func (b *BoundingBox) Encompass(extent Extent) {
	extent = extent.Normalize()
	if !b.set {
		b.Set(extent)
		return
	}
	b.extent = Extent{
		math.Min(b.extent[0], extent[0]),
		math.Min(b.extent[1], extent[1]),
		math.Max(b.extent[2], extent[2]),
		math.Max(b.extent[3], extent[3]),
	}
}

// Clear resets the box to empty.
func (b *BoundingBox) Clear() {
	b.extent = Extent{}
	b.set = false
}

// IsEmpty reports whether the box has no extent.
func (b *BoundingBox) IsEmpty() bool {
	return !b.set
}

// Extent returns the current extent and whether the box is non-empty.
func (b *BoundingBox) Extent() (Extent, bool) {
	return b.extent, b.set
}

// IntExtent returns the extent with its corners truncated to integers, the
// form used to index a raster mask.
func (b *BoundingBox) IntExtent() [4]int {
	return [4]int{
		int(b.extent[0]), int(b.extent[1]),
		int(b.extent[2]), int(b.extent[3]),
	}
}

// BBox converts the box to a BBox. An empty box yields the zero BBox.
func (b *BoundingBox) BBox() BBox {
	if !b.set {
		return BBox{}
	}
	return b.extent.BBox()
}

// ContainsBBox reports whether other lies inside the box, edges inclusive.
func (b *BoundingBox) ContainsBBox(other BBox) bool {
	if !b.set {
		return false
	}
	return other.Left() >= b.extent[0] && other.Right() <= b.extent[2] &&
		other.Bottom() >= b.extent[1] && other.Top() <= b.extent[3]
}

// ContainsSegment reports whether both endpoints of s lie inside the box.
func (b *BoundingBox) ContainsSegment(s Segment) bool {
	if !b.set {
		return false
	}
	return b.containsPoint(s.X0, s.Y0) && b.containsPoint(s.X1, s.Y1)
}

func (b *BoundingBox) containsPoint(x, y float64) bool {
	return x >= b.extent[0] && x <= b.extent[2] && y >= b.extent[1] && y <= b.extent[3]
}
