// Package model provides the geometry and table types shared by the table
// detection packages.
//
// Coordinates follow the PDF convention: the origin is the bottom-left corner
// of the page and y grows upward.
//
// # Geometry
//
//   - [BBox] - immutable rectangle with union, containment and intersection
//   - [Extent] - rectangle given by (x0, y0, x1, y1) corners
//   - [BoundingBox] - mutable box with an explicit empty state, grown with
//     Set and Encompass while scanning
//   - [Segment] - a horizontal or vertical ruling line
//
// # Page input
//
// A [Page] carries what a layout provider decoded: [TextFragment] values
// tagged with a [Direction], image regions and optional ruling segments.
//
// # Tables
//
// A [Table] holds a [TableGrid] of [Cell] values together with the quality
// metrics computed during cell assignment:
//
//	table := model.NewTable(grid)
//	fmt.Println(table.Accuracy, table.Whitespace)
//	fmt.Print(table.ToMarkdown())
package model
