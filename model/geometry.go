package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// BBox represents a bounding box (rectangle)
type BBox struct {
	X      float64 // Left
	Y      float64 // Bottom (PDF coordinate system)
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromPoints creates a bounding box from two points
func NewBBoxFromPoints(p1, p2 Point) BBox {
	x := math.Min(p1.X, p2.X)
	y := math.Min(p1.Y, p2.Y)
	width := math.Abs(p2.X - p1.X)
	height := math.Abs(p2.Y - p1.Y)
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// NewBBoxFromCorners creates a bounding box from (x0, y0, x1, y1) corner
// coordinates, normalizing the order of each pair.
func NewBBoxFromCorners(x0, y0, x1, y1 float64) BBox {
	return NewBBoxFromPoints(Point{x0, y0}, Point{x1, y1})
}

// Left returns the left edge X coordinate
func (b BBox) Left() float64 {
	return b.X
}

// Right returns the right edge X coordinate
func (b BBox) Right() float64 {
	return b.X + b.Width
}

// Bottom returns the bottom edge Y coordinate
func (b BBox) Bottom() float64 {
	return b.Y
}

// Top returns the top edge Y coordinate
func (b BBox) Top() float64 {
	return b.Y + b.Height
}

// Center returns the center point
func (b BBox) Center() Point {
	return Point{
		X: b.X + b.Width/2,
		Y: b.Y + b.Height/2,
	}
}

// Extent returns the box as (x0, y0, x1, y1) corners.
func (b BBox) Extent() Extent {
	return Extent{b.Left(), b.Bottom(), b.Right(), b.Top()}
}

// ContainsBBox checks if other lies entirely inside the box. Shared edges
// count as inside.
func (b BBox) ContainsBBox(other BBox) bool {
	return other.Left() >= b.Left() && other.Right() <= b.Right() &&
		other.Bottom() >= b.Bottom() && other.Top() <= b.Top()
}

// IsEmpty returns true if the bounding box has zero area
func (b BBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}
