package tables

import (
	"sort"

	"github.com/tsawler/gridscan/model"
)

// Selection is the text and segments that fall inside one candidate region,
// in reading order.
type Selection struct {
	VerticalSegments   []model.Segment
	HorizontalSegments []model.Segment

	// Horizontal text, top to bottom then left to right
	Horizontal []model.TextFragment

	// Vertical text, left to right then top to bottom
	Vertical []model.TextFragment
}

// Select bins the page's segments and text into region. Nil segment lists
// produce empty selections rather than an error.
func Select(pc *PageContext, region model.BBox, vertical, horizontal []model.Segment) Selection {
	box := model.NewBoundingBox(region.Extent())

	sel := Selection{
		VerticalSegments:   segmentsIn(box, vertical),
		HorizontalSegments: segmentsIn(box, horizontal),
		Horizontal:         pc.textIn(region, model.DirectionHorizontal),
		Vertical:           pc.textIn(region, model.DirectionVertical),
	}

	SortHorizontal(sel.Horizontal)
	SortVertical(sel.Vertical)
	return sel
}

func segmentsIn(box *model.BoundingBox, segments []model.Segment) []model.Segment {
	out := []model.Segment{}
	for _, s := range segments {
		if box.ContainsSegment(s) {
			out = append(out, s)
		}
	}
	return out
}

// SortHorizontal orders fragments by descending y0, then ascending x0.
func SortHorizontal(fragments []model.TextFragment) {
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].Y0() != fragments[j].Y0() {
			return fragments[i].Y0() > fragments[j].Y0()
		}
		return fragments[i].X0() < fragments[j].X0()
	})
}

// SortVertical orders fragments by ascending x0, then descending y0.
func SortVertical(fragments []model.TextFragment) {
	sort.SliceStable(fragments, func(i, j int) bool {
		if fragments[i].X0() != fragments[j].X0() {
			return fragments[i].X0() < fragments[j].X0()
		}
		return fragments[i].Y0() > fragments[j].Y0()
	})
}
