package tables

import (
	"image"
	"log/slog"
	"sort"

	"github.com/tidwall/rtree"
	"github.com/tsawler/gridscan/model"
)

// ImageProvider renders a page to a raster image. It is consulted only when
// the ruling-line strategy has to find segments in pixels.
type ImageProvider interface {
	PageImage(page int) (image.Image, error)
}

// PageContext is the per-page state shared by every strategy. It is built
// once per page and owned by the goroutine processing that page.
type PageContext struct {
	Page *model.Page

	Horizontal []model.TextFragment
	Vertical   []model.TextFragment

	VerticalSegments   []model.Segment
	HorizontalSegments []model.Segment

	Images      ImageProvider
	Diagnostics Diagnostics

	hIndex rtree.RTreeG[int]
	vIndex rtree.RTreeG[int]
}

// NewPageContext splits the page's text by direction, drops blank
// fragments and indexes the rest for region queries.
func NewPageContext(page *model.Page) *PageContext {
	pc := &PageContext{
		Page:        page,
		Diagnostics: NopDiagnostics{},
	}

	pc.Horizontal, pc.Vertical = page.TextByDirection()
	pc.VerticalSegments, pc.HorizontalSegments = model.SplitSegments(page.Segments)

	indexFragments(&pc.hIndex, pc.Horizontal)
	indexFragments(&pc.vIndex, pc.Vertical)
	return pc
}

func indexFragments(tr *rtree.RTreeG[int], fragments []model.TextFragment) {
	for i, f := range fragments {
		tr.Insert(
			[2]float64{f.BBox.Left(), f.BBox.Bottom()},
			[2]float64{f.BBox.Right(), f.BBox.Top()},
			i,
		)
	}
}

// textIn returns the fragments of one direction lying entirely inside
// region, in their original order.
func (pc *PageContext) textIn(region model.BBox, d model.Direction) []model.TextFragment {
	tr, fragments := &pc.hIndex, pc.Horizontal
	if d == model.DirectionVertical {
		tr, fragments = &pc.vIndex, pc.Vertical
	}

	var hits []int
	tr.Search(
		[2]float64{region.Left(), region.Bottom()},
		[2]float64{region.Right(), region.Top()},
		func(_, _ [2]float64, i int) bool {
			if region.ContainsBBox(fragments[i].BBox) {
				hits = append(hits, i)
			}
			return true
		},
	)
	sort.Ints(hits)

	out := make([]model.TextFragment, len(hits))
	for k, i := range hits {
		out[k] = fragments[i]
	}
	return out
}

func (pc *PageContext) pageNumber() int {
	if pc.Page == nil {
		return 0
	}
	return pc.Page.Number
}

func (pc *PageContext) emit(kind EventKind, level slog.Level, msg string, attrs ...slog.Attr) {
	if pc.Diagnostics == nil {
		return
	}
	pc.Diagnostics.Emit(Event{
		Kind:    kind,
		Level:   level,
		Page:    pc.pageNumber(),
		Message: msg,
		Attrs:   attrs,
	})
}

// Region is a candidate table area together with the segments a strategy
// associated with it, if any.
type Region struct {
	BBox               model.BBox
	VerticalSegments   []model.Segment
	HorizontalSegments []model.Segment
}

// RegionSet is what a strategy's region detection produces for a page.
type RegionSet struct {
	Regions []Region

	// Ruling segments discovered on the whole page
	VerticalSegments   []model.Segment
	HorizontalSegments []model.Segment

	// Raw raster-scan candidates, kept for diagnostics
	ScanRegions []model.BBox
}

// Sorted returns the regions in reading order: descending top edge, then
// ascending left edge.
func (rs *RegionSet) Sorted() []Region {
	out := make([]Region, len(rs.Regions))
	copy(out, rs.Regions)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].BBox.Top() != out[j].BBox.Top() {
			return out[i].BBox.Top() > out[j].BBox.Top()
		}
		return out[i].BBox.Left() < out[j].BBox.Left()
	})
	return out
}

// Hints carries ruling segments one strategy found to another.
type Hints struct {
	VerticalSegments   []model.Segment
	HorizontalSegments []model.Segment
}

// Strategy detects table regions on a page and builds an empty table for
// each region.
type Strategy interface {
	// Flavor tags the tables this strategy builds
	Flavor() model.Flavor

	// DetectRegions proposes candidate table regions
	DetectRegions(pc *PageContext, hints Hints) (*RegionSet, error)

	// BuildTable constructs the grid for one region. Cell text is left empty.
	BuildTable(pc *PageContext, region Region, sel Selection) (*model.Table, error)

	// Capabilities reports the optional cell-assignment hooks the strategy
	// supports
	Capabilities() Capabilities
}

// CellReducer moves text assigned to a sub-cell of a merged cell to the
// cell that owns it.
type CellReducer interface {
	ReduceIndex(table *model.Table, indices []CellText, shift []string) []CellText
}

// Capabilities lists the optional hooks of a strategy.
type Capabilities struct {
	// Reducer is nil when the strategy's grids never over-segment
	Reducer CellReducer

	// CopySpanning enables copying text into spanned blank cells
	CopySpanning bool
}
