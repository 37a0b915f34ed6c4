package tables

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/tsawler/gridscan/model"
)

// Stream detects tables from the whitespace between text. Regions come
// from explicit table areas or from the raster scan of a PseudoImage; the
// grid comes from how text lines up in rows and columns.
type Stream struct {
	config Config
}

// NewStream creates a whitespace-clustering strategy.
func NewStream(config Config) *Stream {
	return &Stream{config: config}
}

// Flavor returns model.FlavorStream.
func (s *Stream) Flavor() model.Flavor {
	return model.FlavorStream
}

// Capabilities is empty: clustered grids never split a merged cell.
func (s *Stream) Capabilities() Capabilities {
	return Capabilities{}
}

// DetectRegions returns the configured table areas or, when there are none,
// the regions found by scanning the page's text mask. Ruling segments from
// hints are carried through for row placement. Pages larger than
// MaxPageSize return ErrPageTooLarge instead of allocating a mask.
func (s *Stream) DetectRegions(pc *PageContext, hints Hints) (*RegionSet, error) {
	rs := &RegionSet{
		VerticalSegments:   hints.VerticalSegments,
		HorizontalSegments: hints.HorizontalSegments,
	}

	if len(s.config.TableAreas) > 0 {
		for _, area := range s.config.TableAreas {
			rs.Regions = append(rs.Regions, Region{BBox: area})
		}
		pc.emit(EventRegions, slog.LevelDebug, "using configured table areas",
			slog.Int("regions", len(rs.Regions)))
		return rs, nil
	}

	if limit := s.config.MaxPageSize; limit > 0 && (pc.Page.Width > limit || pc.Page.Height > limit) {
		return nil, fmt.Errorf("%w: %gx%g exceeds %g", ErrPageTooLarge, pc.Page.Width, pc.Page.Height, limit)
	}

	img := NewPseudoImage(pc.Page.Width, pc.Page.Height)
	img.SetMaxRowGap(s.config.MaxRowGap)
	img.PlotText(pc.Horizontal, s.config.TrimX, s.config.TrimY)
	for _, box := range img.ScanForTables() {
		rs.Regions = append(rs.Regions, Region{BBox: box})
	}
	rs.ScanRegions = img.Tables()

	pc.emit(EventRegions, slog.LevelDebug, "text regions detected",
		slog.Int("regions", len(rs.Regions)),
		slog.Int("scanned", len(rs.ScanRegions)),
	)
	return rs, nil
}

// BuildTable lays a grid over the region's text. Row boundaries sit in the
// gaps between text lines, on a horizontal ruling when one lies in the gap.
// Column boundaries sit midway between text columns.
func (s *Stream) BuildTable(pc *PageContext, region Region, sel Selection) (*model.Table, error) {
	box := region.BBox
	lines := groupRows(sel.Horizontal, s.config.RowTolerance)

	rulings := make([]float64, 0, len(sel.HorizontalSegments))
	for _, seg := range sel.HorizontalSegments {
		rulings = append(rulings, seg.Y0)
	}
	rows := rowBoundaries(box, lines, rulings, s.config.RowTolerance)
	cols := columnBoundaries(box, lines, s.config.ColumnTolerance)

	table := model.NewTable(model.NewTableGrid(cols, rows))
	table.SetAllEdges()
	table.BBox = box
	return table, nil
}

// groupRows groups fragments into text lines: a fragment joins the current
// line when its vertical centre is within tolerance of the line's first
// fragment. Lines run top to bottom, fragments left to right.
func groupRows(fragments []model.TextFragment, tolerance float64) [][]model.TextFragment {
	sorted := make([]model.TextFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BBox.Center().Y > sorted[j].BBox.Center().Y
	})

	var rows [][]model.TextFragment
	var anchor float64
	for _, f := range sorted {
		cy := f.BBox.Center().Y
		if len(rows) == 0 || math.Abs(anchor-cy) > tolerance {
			rows = append(rows, nil)
			anchor = cy
		}
		rows[len(rows)-1] = append(rows[len(rows)-1], f)
	}
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X0() < row[j].X0() })
	}
	return rows
}

// rowBoundaries returns descending row boundaries for the region: one in
// every gap between consecutive text lines, plus the region's top and
// bottom. A ruling within tolerance of a gap is that gap's boundary instead
// of the midpoint. Rulings elsewhere in the region are boundaries too.
func rowBoundaries(box model.BBox, lines [][]model.TextFragment, rulings []float64, tolerance float64) []float64 {
	inner := make([]float64, 0, len(lines)+len(rulings))
	inner = append(inner, rulings...)
	for i := 1; i < len(lines); i++ {
		above := math.Inf(1)
		for _, f := range lines[i-1] {
			above = math.Min(above, f.Y0())
		}
		below := math.Inf(-1)
		for _, f := range lines[i] {
			below = math.Max(below, f.Y1())
		}

		ruled := false
		for _, y := range rulings {
			if y >= below-tolerance && y <= above+tolerance {
				ruled = true
				break
			}
		}
		if !ruled {
			inner = append(inner, (above+below)/2)
		}
	}
	return reversed(boundaries(box.Bottom(), box.Top(), inner, tolerance))
}

type interval struct {
	lo, hi float64
}

// columnBoundaries derives column positions from the lines that have the
// most common number of fragments, adds text that falls between or outside
// those columns as extra columns, and places boundaries midway between
// neighbouring columns.
func columnBoundaries(box model.BBox, rows [][]model.TextFragment, tolerance float64) []float64 {
	if len(rows) == 0 {
		return []float64{box.Left(), box.Right()}
	}

	mode := modeLength(rows)
	var cols []interval
	for _, row := range rows {
		if len(row) != mode {
			continue
		}
		for _, f := range row {
			cols = append(cols, interval{f.X0(), f.X1()})
		}
	}
	cols = mergeIntervals(cols, tolerance)

	var extra []interval
	for _, row := range rows {
		if len(row) == mode {
			continue
		}
		for _, f := range row {
			iv := interval{f.X0(), f.X1()}
			if !overlapsAny(iv, cols) {
				extra = append(extra, iv)
			}
		}
	}
	cols = mergeIntervals(append(cols, extra...), tolerance)

	out := []float64{box.Left()}
	for i := 1; i < len(cols); i++ {
		mid := (cols[i-1].hi + cols[i].lo) / 2
		if mid > out[len(out)-1] && mid < box.Right() {
			out = append(out, mid)
		}
	}
	return append(out, box.Right())
}

// modeLength returns the most common line length. Ties go to the longer
// line.
func modeLength(rows [][]model.TextFragment) int {
	counts := map[int]int{}
	for _, row := range rows {
		counts[len(row)]++
	}
	best, bestCount := 0, 0
	for n, c := range counts {
		if c > bestCount || (c == bestCount && n > best) {
			best, bestCount = n, c
		}
	}
	return best
}

func overlapsAny(iv interval, set []interval) bool {
	for _, o := range set {
		if iv.lo <= o.hi && o.lo <= iv.hi {
			return true
		}
	}
	return false
}

// mergeIntervals sorts intervals and joins those that overlap or lie within
// tolerance of each other.
func mergeIntervals(intervals []interval, tolerance float64) []interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].lo != sorted[j].lo {
			return sorted[i].lo < sorted[j].lo
		}
		return sorted[i].hi < sorted[j].hi
	})

	out := []interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if iv.lo <= last.hi+tolerance {
			last.hi = math.Max(last.hi, iv.hi)
			continue
		}
		out = append(out, iv)
	}
	return out
}
