package tables

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/tsawler/gridscan/model"
)

// Lattice detects tables from drawn ruling lines. Segments come from the
// layout provider or, failing that, from the page image.
type Lattice struct {
	config Config
}

// NewLattice creates a ruling-line strategy.
func NewLattice(config Config) *Lattice {
	return &Lattice{config: config}
}

// Flavor returns model.FlavorLattice.
func (l *Lattice) Flavor() model.Flavor {
	return model.FlavorLattice
}

// Capabilities enables index reduction and spanning-text copying: ruling
// grids split merged cells into sub-cells.
func (l *Lattice) Capabilities() Capabilities {
	return Capabilities{Reducer: l, CopySpanning: true}
}

// DetectRegions collects the page's ruling segments and groups connected
// segments into table regions. A region needs at least two vertical and two
// horizontal segments.
func (l *Lattice) DetectRegions(pc *PageContext, _ Hints) (*RegionSet, error) {
	vertical, horizontal := pc.VerticalSegments, pc.HorizontalSegments

	if len(vertical) == 0 && len(horizontal) == 0 && pc.Images != nil {
		img, err := pc.Images.PageImage(pc.pageNumber())
		switch {
		case errors.Is(err, ErrNoImage) || (err == nil && img == nil):
			pc.emit(EventRegions, slog.LevelDebug, "no page image, skipping raster line detection")
		case err != nil:
			return nil, fmt.Errorf("rendering page %d: %w", pc.pageNumber(), err)
		default:
			vertical, horizontal = DetectSegments(img, pc.Page.Width, pc.Page.Height, l.config)
		}
	}

	rs := &RegionSet{
		VerticalSegments:   mergeSegments(vertical, model.OrientationVertical, l.config.LineTolerance),
		HorizontalSegments: mergeSegments(horizontal, model.OrientationHorizontal, l.config.LineTolerance),
	}
	rs.Regions = l.findRegions(rs.VerticalSegments, rs.HorizontalSegments)

	pc.emit(EventRegions, slog.LevelDebug, "ruling regions detected",
		slog.Int("regions", len(rs.Regions)),
		slog.Int("vertical_segments", len(rs.VerticalSegments)),
		slog.Int("horizontal_segments", len(rs.HorizontalSegments)),
	)
	return rs, nil
}

// findRegions groups segments that meet at joints into connected
// components and returns one region per component with both orientations.
func (l *Lattice) findRegions(vertical, horizontal []model.Segment) []Region {
	n := len(vertical) + len(horizontal)
	if len(vertical) == 0 || len(horizontal) == 0 {
		return nil
	}

	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}

	tol := l.config.JointTolerance
	for i, v := range vertical {
		for j, h := range horizontal {
			if meets(v, h, tol) {
				a, b := find(i), find(len(vertical)+j)
				if a != b {
					parent[a] = b
				}
			}
		}
	}

	byRoot := map[int]*Region{}
	var order []int
	for i := 0; i < n; i++ {
		root := find(i)
		r, ok := byRoot[root]
		if !ok {
			r = &Region{}
			byRoot[root] = r
			order = append(order, root)
		}
		if i < len(vertical) {
			r.VerticalSegments = append(r.VerticalSegments, vertical[i])
		} else {
			r.HorizontalSegments = append(r.HorizontalSegments, horizontal[i-len(vertical)])
		}
	}

	var regions []Region
	for _, root := range order {
		r := byRoot[root]
		if len(r.VerticalSegments) < 2 || len(r.HorizontalSegments) < 2 {
			continue
		}
		var box model.BoundingBox
		for _, s := range r.VerticalSegments {
			box.Encompass(model.Extent{s.X0, s.Y0, s.X1, s.Y1})
		}
		for _, s := range r.HorizontalSegments {
			box.Encompass(model.Extent{s.X0, s.Y0, s.X1, s.Y1})
		}
		r.BBox = box.BBox()
		regions = append(regions, *r)
	}
	return regions
}

// meets reports whether a vertical and a horizontal segment cross or touch
// within tolerance.
func meets(v, h model.Segment, tol float64) bool {
	return v.X0 >= h.X0-tol && v.X0 <= h.X1+tol &&
		h.Y0 >= v.Y0-tol && h.Y0 <= v.Y1+tol
}

// BuildTable places column boundaries at the region's vertical segments and
// row boundaries at its horizontal segments, then records which cell edges
// are drawn.
func (l *Lattice) BuildTable(pc *PageContext, region Region, sel Selection) (*model.Table, error) {
	box := region.BBox
	tol := l.config.LineTolerance

	xs := make([]float64, 0, len(sel.VerticalSegments))
	for _, s := range sel.VerticalSegments {
		xs = append(xs, s.X0)
	}
	ys := make([]float64, 0, len(sel.HorizontalSegments))
	for _, s := range sel.HorizontalSegments {
		ys = append(ys, s.Y0)
	}

	grid := model.NewTableGrid(
		boundaries(box.Left(), box.Right(), xs, tol),
		reversed(boundaries(box.Bottom(), box.Top(), ys, tol)),
	)
	table := model.NewTable(grid)
	l.setEdges(table, sel.VerticalSegments, sel.HorizontalSegments)
	table.BBox = box
	return table, nil
}

// setEdges marks a cell side as drawn when a segment lies on that boundary
// and covers the whole side.
func (l *Lattice) setEdges(table *model.Table, vertical, horizontal []model.Segment) {
	grid := table.Grid
	rows, cols := grid.RowCount(), grid.ColCount()
	tol := l.config.JointTolerance

	for _, v := range vertical {
		for i, x := range grid.Cols {
			if math.Abs(v.X0-x) > tol {
				continue
			}
			for r := 0; r < rows; r++ {
				top, bottom := grid.Rows[r], grid.Rows[r+1]
				if v.Y0 > bottom+tol || v.Y1 < top-tol {
					continue
				}
				if i < cols {
					table.Cells[r][i].Left = true
				}
				if i > 0 {
					table.Cells[r][i-1].Right = true
				}
			}
		}
	}

	for _, h := range horizontal {
		for j, y := range grid.Rows {
			if math.Abs(h.Y0-y) > tol {
				continue
			}
			for c := 0; c < cols; c++ {
				left, right := grid.Cols[c], grid.Cols[c+1]
				if h.X0 > left+tol || h.X1 < right-tol {
					continue
				}
				if j < rows {
					table.Cells[j][c].Top = true
				}
				if j > 0 {
					table.Cells[j-1][c].Bottom = true
				}
			}
		}
	}
}

// ReduceIndex moves text that landed in a sub-cell of a merged cell to the
// sub-cell holding the merged cell's drawn edge, walking in each of the
// shift directions ("l", "r", "t", "b").
func (l *Lattice) ReduceIndex(table *model.Table, indices []CellText, shift []string) []CellText {
	out := make([]CellText, 0, len(indices))
	for _, ct := range indices {
		r, c := ct.Row, ct.Col
		for _, d := range shift {
			cell := table.GetCell(r, c)
			if cell == nil {
				break
			}
			switch d {
			case "l":
				if cell.HSpan() {
					for c > 0 && !table.Cells[r][c].Left {
						c--
					}
				}
			case "r":
				if cell.HSpan() {
					for c < len(table.Cells[r])-1 && !table.Cells[r][c].Right {
						c++
					}
				}
			case "t":
				if cell.VSpan() {
					for r > 0 && !table.Cells[r][c].Top {
						r--
					}
				}
			case "b":
				if cell.VSpan() {
					for r < len(table.Cells)-1 && !table.Cells[r][c].Bottom {
						r++
					}
				}
			}
		}
		out = append(out, CellText{Row: r, Col: c, Text: ct.Text})
	}
	return out
}
