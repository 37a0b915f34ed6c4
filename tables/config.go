package tables

import (
	"fmt"

	"github.com/tsawler/gridscan/model"
)

// Config holds detector configuration
type Config struct {
	// Split a fragment across the cells whose edges it straddles
	SplitText bool

	// Wrap glyph runs of the smallest size in <s></s> (superscripts etc.)
	FlagSize bool

	// Characters trimmed from both ends of assigned text
	StripText string

	// Directions ("l", "r", "t", "b") in which text inside a spanning cell
	// is moved to the owning cell. Ruling-line tables only.
	ShiftText []string

	// Directions ("h", "v") in which text of a spanning cell is copied
	// into the blank cells it spans. Ruling-line tables only.
	CopyText []string

	// Margin (in points) added around each fragment in the raster mask
	TrimX int
	TrimY int

	// Consecutive blank mask rows after which an open table candidate is
	// closed, so tables stacked on one page stay apart. Rows spaced further
	// apart than this split a table into single-row pieces that are all
	// rejected; raise it for double-spaced tables. Zero disables the limit.
	MaxRowGap int

	// Largest page width or height (points) the text mask is built for.
	// Larger pages are skipped with ErrPageTooLarge. Zero disables the
	// limit.
	MaxPageSize float64

	// A ruling line must be at least page size / LineScale long
	LineScale float64

	// Tolerance for merging ruling lines at the same position (points)
	LineTolerance float64

	// Tolerance for ruling lines to meet at a joint (points)
	JointTolerance float64

	// Gray level below which a raster pixel counts as ink
	InkThreshold uint8

	// Explicit table areas for the clustering strategy. When set, region
	// detection is skipped.
	TableAreas []model.BBox

	// Tolerance for grouping text into the same row (points)
	RowTolerance float64

	// Tolerance for merging text intervals into the same column (points)
	ColumnTolerance float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		SplitText:       false,
		FlagSize:        false,
		StripText:       "",
		ShiftText:       []string{"l", "t"},
		CopyText:        nil,
		TrimX:           0,
		TrimY:           0,
		MaxRowGap:       20,
		MaxPageSize:     14400,
		LineScale:       15,
		LineTolerance:   2,
		JointTolerance:  2,
		InkThreshold:    128,
		RowTolerance:    2,
		ColumnTolerance: 0,
	}
}

// Validate rejects malformed options before any scanning starts.
func (c Config) Validate() error {
	seen := map[string]bool{}
	for _, d := range c.ShiftText {
		switch d {
		case "l", "r", "t", "b":
		default:
			return &ConfigError{Field: "ShiftText", Reason: fmt.Sprintf("unknown direction %q", d)}
		}
		seen[d] = true
	}
	if seen["l"] && seen["r"] {
		return &ConfigError{Field: "ShiftText", Reason: "cannot shift both left and right"}
	}
	if seen["t"] && seen["b"] {
		return &ConfigError{Field: "ShiftText", Reason: "cannot shift both up and down"}
	}

	for _, d := range c.CopyText {
		if d != "h" && d != "v" {
			return &ConfigError{Field: "CopyText", Reason: fmt.Sprintf("unknown direction %q", d)}
		}
	}

	if c.TrimX < 0 || c.TrimY < 0 {
		return &ConfigError{Field: "Trim", Reason: "must not be negative"}
	}
	if c.MaxRowGap < 0 {
		return &ConfigError{Field: "MaxRowGap", Reason: "must not be negative"}
	}
	if c.MaxPageSize < 0 {
		return &ConfigError{Field: "MaxPageSize", Reason: "must not be negative"}
	}
	if c.LineScale <= 0 {
		return &ConfigError{Field: "LineScale", Reason: "must be positive"}
	}
	if c.LineTolerance < 0 || c.JointTolerance < 0 {
		return &ConfigError{Field: "LineTolerance", Reason: "must not be negative"}
	}
	if c.RowTolerance < 0 || c.ColumnTolerance < 0 {
		return &ConfigError{Field: "RowTolerance", Reason: "must not be negative"}
	}
	for i, area := range c.TableAreas {
		if area.IsEmpty() {
			return &ConfigError{Field: "TableAreas", Reason: fmt.Sprintf("area %d has no size", i)}
		}
	}
	return nil
}
