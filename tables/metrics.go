package tables

import (
	"math"
	"strings"
)

// ComputeAccuracy turns per-fragment positional errors (in percent) into a
// table accuracy score: 100 minus the mean absolute error, clamped to
// [0, 100]. No matched fragments means an accuracy of 0.
func ComputeAccuracy(errors []float64) float64 {
	if len(errors) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range errors {
		sum += math.Abs(e)
	}
	return clampPercent(100 - sum/float64(len(errors)))
}

// ComputeWhitespace returns the percentage of cells whose trimmed text is
// empty. A table without cells is all whitespace.
func ComputeWhitespace(data [][]string) float64 {
	total, blank := 0, 0
	for _, row := range data {
		for _, text := range row {
			total++
			if strings.TrimSpace(text) == "" {
				blank++
			}
		}
	}
	if total == 0 {
		return 100
	}
	return clampPercent(100 * float64(blank) / float64(total))
}

func clampPercent(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(100, v))
}
