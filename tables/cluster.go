package tables

import (
	"sort"

	"github.com/tsawler/gridscan/model"
)

// clusterValues clusters nearby sorted values within the given tolerance,
// averaging values that fall within the tolerance of the cluster center.
func clusterValues(values []float64, tolerance float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	clustered := []float64{values[0]}
	counts := []int{1}

	for i := 1; i < len(values); i++ {
		last := len(clustered) - 1
		if values[i]-clustered[last] > tolerance {
			clustered = append(clustered, values[i])
			counts = append(counts, 1)
			continue
		}
		// Update cluster center with running average
		counts[last]++
		clustered[last] += (values[i] - clustered[last]) / float64(counts[last])
	}

	return clustered
}

// boundaries returns the clustered positions plus the two outer edges,
// ascending. The outer edges are kept exactly; inner positions closer than
// tolerance to an edge are absorbed by it.
func boundaries(lo, hi float64, inner []float64, tolerance float64) []float64 {
	values := make([]float64, 0, len(inner))
	for _, v := range inner {
		if v-lo > tolerance && hi-v > tolerance {
			values = append(values, v)
		}
	}
	sort.Float64s(values)

	out := []float64{lo}
	out = append(out, clusterValues(values, tolerance)...)
	return append(out, hi)
}

func reversed(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[len(values)-1-i] = v
	}
	return out
}

// alignedGroup is a set of collinear segments merged into one.
type alignedGroup struct {
	position float64
	start    float64
	end      float64
	count    int
}

// mergeSegments joins segments of one orientation that lie on the same line
// (within tolerance) and overlap or touch along it.
func mergeSegments(segments []model.Segment, orientation model.Orientation, tolerance float64) []model.Segment {
	if len(segments) == 0 {
		return nil
	}

	key := func(s model.Segment) (pos, start, end float64) {
		if orientation == model.OrientationVertical {
			return s.X0, s.Y0, s.Y1
		}
		return s.Y0, s.X0, s.X1
	}

	sorted := make([]model.Segment, len(segments))
	copy(sorted, segments)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, si, _ := key(sorted[i])
		pj, sj, _ := key(sorted[j])
		if pi != pj {
			return pi < pj
		}
		return si < sj
	})

	var groups []alignedGroup
	for _, s := range sorted {
		pos, start, end := key(s)
		merged := false
		for g := range groups {
			grp := &groups[g]
			if pos-grp.position > tolerance || start > grp.end+tolerance || end < grp.start-tolerance {
				continue
			}
			grp.count++
			grp.position += (pos - grp.position) / float64(grp.count)
			if start < grp.start {
				grp.start = start
			}
			if end > grp.end {
				grp.end = end
			}
			merged = true
			break
		}
		if !merged {
			groups = append(groups, alignedGroup{position: pos, start: start, end: end, count: 1})
		}
	}

	out := make([]model.Segment, len(groups))
	for i, g := range groups {
		if orientation == model.OrientationVertical {
			out[i] = model.Segment{X0: g.position, Y0: g.start, X1: g.position, Y1: g.end}
		} else {
			out[i] = model.Segment{X0: g.start, Y0: g.position, X1: g.end, Y1: g.position}
		}
	}
	return out
}
