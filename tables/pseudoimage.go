package tables

import (
	"math"
	"strings"

	"github.com/tsawler/gridscan/model"
)

// PseudoImage is a binary text-presence mask of a page, one cell per point.
// mask[y][x] is 1 where text (plus the trim margin) covers the point. Row
// indices follow page coordinates, so row 0 is the bottom of the page.
type PseudoImage struct {
	width  int
	height int
	mask   [][]uint8

	pageWidth  float64
	pageHeight float64

	maxRowGap int
	tables    []model.BBox
}

// NewPseudoImage creates an empty mask covering a page of the given size.
func NewPseudoImage(width, height float64) *PseudoImage {
	w, h := int(width), int(height)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	p := &PseudoImage{
		width:      w,
		height:     h,
		pageWidth:  width,
		pageHeight: height,
	}
	p.Clear()
	return p
}

// SetMaxRowGap sets the number of consecutive blank rows after which an open
// table candidate is closed. Zero disables the limit.
func (p *PseudoImage) SetMaxRowGap(rows int) {
	p.maxRowGap = rows
}

// Clear resets the mask to all blank.
func (p *PseudoImage) Clear() {
	p.mask = make([][]uint8, p.height)
	for y := range p.mask {
		p.mask[y] = make([]uint8, p.width)
	}
}

// PlotText marks every non-blank fragment's box, grown by trimX and trimY,
// as present. The right-most column and the top row are always set so that
// every scan line ends on a present cell.
func (p *PseudoImage) PlotText(fragments []model.TextFragment, trimX, trimY int) {
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		x0 := clampInt(int(f.X0())-trimX, 0, p.width-1)
		x1 := clampInt(int(f.X1())+trimX, 0, p.width-1)
		y0 := clampInt(int(f.Y0())-trimY, 0, p.height-1)
		y1 := clampInt(int(f.Y1())+trimY, 0, p.height-1)
		for y := y0; y <= y1; y++ {
			row := p.mask[y]
			for x := x0; x <= x1; x++ {
				row[x] = 1
			}
		}
	}
	for y := range p.mask {
		p.mask[y][p.width-1] = 1
	}
	for x := range p.mask[p.height-1] {
		p.mask[p.height-1][x] = 1
	}
}

// Scan returns the position of every gap in a scan line. The first cell is
// treated as blank and the last as present, so each gap is followed by a
// present run; a gap's position is the midpoint between its start and the
// start of the following run, shifted by offset.
func Scan(line []uint8, offset float64) []float64 {
	if len(line) < 2 {
		return nil
	}
	seg := make([]uint8, len(line))
	copy(seg, line)
	seg[0] = 0
	seg[len(seg)-1] = 1

	var bands []float64
	gapStart := -1
	for i, v := range seg {
		if i > 0 && v == seg[i-1] {
			continue
		}
		if v == 0 {
			gapStart = i
			continue
		}
		if gapStart >= 0 {
			bands = append(bands, float64(gapStart+i)/2+offset)
			gapStart = -1
		}
	}
	return bands
}

// Scan2D sweeps the mask inside extent (x0, y0, x1, y1, inclusive) along
// both axes and returns the gap positions of each sweep.
func (p *PseudoImage) Scan2D(extent [4]int) (h, v []float64) {
	x0 := clampInt(extent[0], 0, p.width-1)
	y0 := clampInt(extent[1], 0, p.height-1)
	x1 := clampInt(extent[2], 0, p.width-1)
	y1 := clampInt(extent[3], 0, p.height-1)
	if x1 < x0 || y1 < y0 {
		return nil, nil
	}

	hSweep := make([]uint8, x1-x0+1)
	vSweep := make([]uint8, y1-y0+1)
	for y := y0; y <= y1; y++ {
		row := p.mask[y]
		for x := x0; x <= x1; x++ {
			if row[x] == 1 {
				hSweep[x-x0] = 1
				vSweep[y-y0] = 1
			}
		}
	}
	return Scan(hSweep, float64(x0)), Scan(vSweep, float64(y0))
}

// ScanForTables walks the mask from the top of the page down and returns
// the regions whose rows show the rhythm of a table. When nothing qualifies
// the whole page is returned as the only region.
func (p *PseudoImage) ScanForTables() []model.BBox {
	s := newTableScan(p)
	for y := p.height - 1; y >= 0; y-- {
		s.step(y, Scan(p.mask[y], 0))
	}
	s.finish()

	p.tables = s.tables
	if len(p.tables) == 0 {
		return []model.BBox{{Width: p.pageWidth, Height: p.pageHeight}}
	}
	out := make([]model.BBox, len(p.tables))
	copy(out, p.tables)
	return out
}

// Tables returns the regions accepted by the last ScanForTables call,
// without the whole-page fallback.
func (p *PseudoImage) Tables() []model.BBox {
	return p.tables
}

type scanState int

const (
	stateIdle scanState = iota
	stateAccumulating
)

// tableScan is the state machine behind ScanForTables. It consumes one
// scan line at a time, top to bottom, and keeps at most one open candidate.
type tableScan struct {
	img       *PseudoImage
	state     scanState
	candidate model.BoundingBox

	lastContent int // lowest row that carried table content
	gapRun      int // consecutive blank rows since lastContent
	maxGap      int

	tables []model.BBox
}

func newTableScan(img *PseudoImage) *tableScan {
	return &tableScan{img: img, maxGap: img.maxRowGap}
}

func (s *tableScan) step(y int, breaks []float64) {
	switch s.state {
	case stateIdle:
		s.idle(y, breaks)
	case stateAccumulating:
		s.accumulate(y, breaks)
	}
}

// idle ignores background rows and opens a candidate on the first row with
// several text clusters.
func (s *tableScan) idle(y int, breaks []float64) {
	if len(breaks) <= 2 {
		return
	}
	s.open(y, breaks)
}

func (s *tableScan) open(y int, breaks []float64) {
	s.candidate.Set(model.Extent{
		breaks[0] - 2, float64(y),
		breaks[len(breaks)-1] + 2, float64(y + 2),
	})
	s.state = stateAccumulating
	s.lastContent = y
	s.gapRun = 0
}

func (s *tableScan) accumulate(y int, breaks []float64) {
	ext, _ := s.candidate.Extent()
	switch {
	case len(breaks) > 2:
		s.extendRow(y, breaks)
	case len(breaks) < 2:
		s.extendGap(y)
	case breaks[0] > ext[0] && breaks[len(breaks)-1] < ext[2]:
		s.extendHeading(y)
	default:
		s.close()
	}
}

// extendRow takes in another multi-cluster row, widening the candidate to
// the row's extent.
func (s *tableScan) extendRow(y int, breaks []float64) {
	ext, _ := s.candidate.Extent()
	s.candidate.Encompass(model.Extent{breaks[0], float64(y), breaks[len(breaks)-1], ext[3]})
	s.lastContent = y
	s.gapRun = 0
}

// extendGap takes in a blank row between table rows. A run of blank rows
// longer than maxGap ends the candidate.
func (s *tableScan) extendGap(y int) {
	s.gapRun++
	if s.maxGap > 0 && s.gapRun > s.maxGap {
		s.close()
		return
	}
	ext, _ := s.candidate.Extent()
	s.candidate.Encompass(model.Extent{ext[0], float64(y), ext[2], ext[3]})
}

// extendHeading takes in a single-cluster row lying inside the candidate's
// horizontal span, such as a spanning heading.
func (s *tableScan) extendHeading(y int) {
	ext, _ := s.candidate.Extent()
	s.candidate.Encompass(model.Extent{ext[0], float64(y), ext[2], ext[3]})
	s.lastContent = y
	s.gapRun = 0
}

// close trims trailing blank rows, accepts the candidate if it holds at
// least two rows of content, and returns to idle.
func (s *tableScan) close() {
	ext, _ := s.candidate.Extent()
	bottom := float64(s.lastContent - 2)
	if bottom < 0 {
		bottom = 0
	}
	s.candidate.Set(model.Extent{
		math.Max(ext[0], 0), bottom,
		math.Min(ext[2], s.img.pageWidth), math.Min(ext[3], s.img.pageHeight),
	})

	_, v := s.img.Scan2D(s.candidate.IntExtent())
	if len(v) > 2 {
		s.tables = append(s.tables, s.candidate.BBox())
	}
	s.candidate.Clear()
	s.state = stateIdle
	s.gapRun = 0
}

// finish closes a candidate still open at the bottom of the page.
func (s *tableScan) finish() {
	if s.state == stateAccumulating {
		s.close()
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
