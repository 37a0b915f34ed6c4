package tables

import (
	"log/slog"
	"math"
	"strings"

	"github.com/tsawler/gridscan/model"
	"golang.org/x/text/unicode/norm"
)

// CellText is a piece of text destined for one cell.
type CellText struct {
	Row  int
	Col  int
	Text string
}

// Assigner places the text of a Selection into the cells of a table and
// scores how well the text fits the grid.
type Assigner struct {
	config Config
	caps   Capabilities
}

// NewAssigner creates an assigner. caps decides once whether index
// reduction and spanning-text copying take part.
func NewAssigner(config Config, caps Capabilities) *Assigner {
	return &Assigner{config: config, caps: caps}
}

// Assign writes every matched fragment into its cell and returns the table
// accuracy. Vertical text is processed before horizontal text, each bin in
// its reading order, so the concatenation order inside a cell is fixed.
// pc may be nil; it is only used for diagnostics.
func (a *Assigner) Assign(pc *PageContext, table *model.Table, sel Selection) float64 {
	var posErrors []float64

	for _, bin := range [][]model.TextFragment{sel.Vertical, sel.Horizontal} {
		for _, f := range bin {
			indices, posError := a.TableIndex(pc, table, f)
			if len(indices) == 0 {
				continue
			}
			posErrors = append(posErrors, posError)

			if a.caps.Reducer != nil {
				indices = a.caps.Reducer.ReduceIndex(table, indices, a.config.ShiftText)
			}
			for _, ct := range indices {
				if cell := table.GetCell(ct.Row, ct.Col); cell != nil {
					cell.AppendText(ct.Text)
				}
			}
		}
	}

	accuracy := ComputeAccuracy(posErrors)

	if a.caps.CopySpanning && len(a.config.CopyText) > 0 {
		CopySpanningText(table, a.config.CopyText)
	}
	return accuracy
}

// TableIndex finds the cell(s) a fragment belongs to and the fragment's
// positional error in percent. A nil result means the fragment lies outside
// the grid.
func (a *Assigner) TableIndex(pc *PageContext, table *model.Table, f model.TextFragment) ([]CellText, float64) {
	grid := table.Grid
	row, col := locate(grid, f)
	if row < 0 {
		return nil, 0
	}
	if col < 0 {
		if pc != nil {
			pc.emit(EventColumnMiss, slog.LevelDebug, "text does not lie in column range",
				slog.String("text", f.Text),
				slog.Float64("x0", f.X0()),
				slog.Float64("x1", f.X1()),
			)
		}
		return nil, 0
	}

	posError := positionalError(grid, f, row, col)

	if a.config.SplitText {
		return a.splitFragment(table, f, row, col), posError
	}
	return []CellText{{Row: row, Col: col, Text: a.fragmentText(f.Text, f.Chars, f.Direction)}}, posError
}

// locate returns the row whose span contains the fragment's vertical centre
// and the column with the largest share of its width covered by the
// fragment. Either index is -1 when nothing matches.
func locate(grid *model.TableGrid, f model.TextFragment) (int, int) {
	cy := (f.Y0() + f.Y1()) / 2
	row := -1
	for r := 0; r < grid.RowCount(); r++ {
		if cy < grid.Rows[r] && cy > grid.Rows[r+1] {
			row = r
			break
		}
	}
	if row < 0 {
		return -1, -1
	}

	col := -1
	best := -1.0
	for c := 0; c < grid.ColCount(); c++ {
		left, right := grid.Cols[c], grid.Cols[c+1]
		if left > f.X1() || right < f.X0() {
			continue
		}
		ratio := 0.0
		if width := right - left; width > 0 {
			ratio = (math.Min(f.X1(), right) - math.Max(f.X0(), left)) / width
		}
		if ratio > best {
			best = ratio
			col = c
		}
	}
	return row, col
}

// positionalError measures how far a fragment overhangs its cell, relative
// to the fragment's own size, in percent.
func positionalError(grid *model.TableGrid, f model.TextFragment, row, col int) float64 {
	w := f.X1() - f.X0()
	if w == 0 {
		w = 1
	}
	h := f.Y1() - f.Y0()
	if h == 0 {
		h = 1
	}

	top, bottom := grid.Rows[row], grid.Rows[row+1]
	left, right := grid.Cols[col], grid.Cols[col+1]

	vertical := math.Max(0, f.Y1()-top) + math.Max(0, bottom-f.Y0())
	horizontal := math.Max(0, left-f.X0()) + math.Max(0, f.X1()-right)

	return 100 * (w*vertical + h*horizontal) / (w * h)
}

type cut struct {
	index int
	limit float64
}

// splitFragment distributes a fragment's glyphs over the cells whose
// closing edges it crosses. Fragments without glyph geometry stay whole.
func (a *Assigner) splitFragment(table *model.Table, f model.TextFragment, row, col int) []CellText {
	whole := []CellText{{Row: row, Col: col, Text: a.fragmentText(f.Text, f.Chars, f.Direction)}}
	if len(f.Chars) == 0 {
		return whole
	}

	grid := table.Grid
	var cuts []cut
	var place func(ch model.Char) (int, int)

	if f.Direction == model.DirectionVertical {
		var overlap []int
		for r := 0; r < grid.RowCount(); r++ {
			if grid.Rows[r+1] <= f.Y1() && f.Y0() <= grid.Rows[r] {
				overlap = append(overlap, r)
			}
		}
		if len(overlap) == 0 {
			return whole
		}
		for _, r := range overlap {
			if table.Cells[r][col].Bottom {
				cuts = append(cuts, cut{r, grid.Rows[r+1]})
			}
		}
		if len(cuts) == 0 {
			cuts = []cut{{overlap[0], grid.Rows[len(grid.Rows)-1]}}
		}
		place = func(ch model.Char) (int, int) {
			cy := ch.BBox.Center().Y
			for k, c := range cuts {
				if cy >= c.limit {
					return c.index, col
				}
				if k == len(cuts)-1 {
					return clampIndex(c.index+1, grid.RowCount()), col
				}
			}
			return row, col
		}
	} else {
		var overlap []int
		for c := 0; c < grid.ColCount(); c++ {
			if grid.Cols[c] <= f.X1() && f.X0() <= grid.Cols[c+1] {
				overlap = append(overlap, c)
			}
		}
		if len(overlap) == 0 {
			return whole
		}
		for _, c := range overlap {
			if table.Cells[row][c].Right {
				cuts = append(cuts, cut{c, grid.Cols[c+1]})
			}
		}
		if len(cuts) == 0 {
			cuts = []cut{{overlap[0], grid.Cols[len(grid.Cols)-1]}}
		}
		place = func(ch model.Char) (int, int) {
			cx := ch.BBox.Center().X
			for k, c := range cuts {
				if cx <= c.limit {
					return row, c.index
				}
				if k == len(cuts)-1 {
					return row, clampIndex(c.index+1, grid.ColCount())
				}
			}
			return row, col
		}
	}

	var out []CellText
	var group []model.Char
	gr, gc := -1, -1
	flush := func() {
		if len(group) == 0 {
			return
		}
		text := a.fragmentText(joinChars(group), group, f.Direction)
		if strings.TrimSpace(text) != "" {
			out = append(out, CellText{Row: gr, Col: gc, Text: text})
		}
		group = nil
	}
	for _, ch := range f.Chars {
		r, c := place(ch)
		if r != gr || c != gc {
			flush()
			gr, gc = r, c
		}
		group = append(group, ch)
	}
	flush()
	return out
}

func clampIndex(i, n int) int {
	if i >= n {
		return n - 1
	}
	if i < 0 {
		return 0
	}
	return i
}

func joinChars(chars []model.Char) string {
	var sb strings.Builder
	for _, ch := range chars {
		sb.WriteString(ch.Text)
	}
	return sb.String()
}

// fragmentText applies size flagging, stripping and normalization to the
// text of a fragment or of a group of its glyphs.
func (a *Assigner) fragmentText(text string, chars []model.Char, d model.Direction) string {
	if a.config.FlagSize && len(chars) > 0 {
		text = flagFontSize(chars, d)
	}
	if a.config.StripText != "" {
		text = strings.Trim(text, a.config.StripText)
	}
	return norm.NFC.String(text)
}

// flagFontSize wraps runs of the smallest glyph size in <s></s> when the
// glyphs do not all share one size. Blank runs are dropped.
func flagFontSize(chars []model.Char, d model.Direction) string {
	sizes := make([]float64, len(chars))
	minSize := math.Inf(1)
	uniform := true
	for i, ch := range chars {
		sizes[i] = math.Round(ch.Size(d)*1e6) / 1e6
		minSize = math.Min(minSize, sizes[i])
		if sizes[i] != sizes[0] {
			uniform = false
		}
	}
	if uniform {
		return joinChars(chars)
	}

	var sb strings.Builder
	for start := 0; start < len(chars); {
		end := start
		for end < len(chars) && sizes[end] == sizes[start] {
			end++
		}
		run := joinChars(chars[start:end])
		if strings.TrimSpace(run) != "" {
			if sizes[start] == minSize {
				sb.WriteString("<s>" + run + "</s>")
			} else {
				sb.WriteString(run)
			}
		}
		start = end
	}
	return sb.String()
}

// CopySpanningText copies the text of a merged cell into the blank cells it
// spans: "h" copies rightwards across missing left edges, "v" copies
// downwards across missing top edges.
func CopySpanningText(table *model.Table, directions []string) {
	for _, d := range directions {
		switch d {
		case "h":
			for i := range table.Cells {
				for j := 1; j < len(table.Cells[i]); j++ {
					cell := &table.Cells[i][j]
					if strings.TrimSpace(cell.Text) == "" && cell.HSpan() && !cell.Left {
						cell.Text = table.Cells[i][j-1].Text
					}
				}
			}
		case "v":
			for i := 1; i < len(table.Cells); i++ {
				for j := range table.Cells[i] {
					cell := &table.Cells[i][j]
					if strings.TrimSpace(cell.Text) == "" && cell.VSpan() && !cell.Top {
						cell.Text = table.Cells[i-1][j].Text
					}
				}
			}
		}
	}
}

// TableInfo is the metadata stamped on a table once its text is assigned.
type TableInfo struct {
	Index    int // 0-based position in reading order
	Page     int
	Flavor   model.Flavor
	Accuracy float64
	Regions  *RegionSet
	Text     []model.BBox
}

// Finalize computes the table's shape and whitespace and stamps its order,
// page, metrics and diagnostic back-links.
func Finalize(table *model.Table, info TableInfo) {
	table.Shape = [2]int{table.RowCount(), table.ColCount()}
	table.Flavor = info.Flavor
	table.Accuracy = info.Accuracy
	table.Whitespace = ComputeWhitespace(table.Data())
	table.Order = info.Index + 1
	table.Page = info.Page

	table.Diagnostics = model.TableDiagnostics{Text: info.Text}
	if info.Regions == nil {
		return
	}
	switch info.Flavor {
	case model.FlavorLattice:
		table.Diagnostics.VerticalSegments = info.Regions.VerticalSegments
		table.Diagnostics.HorizontalSegments = info.Regions.HorizontalSegments
	default:
		table.Diagnostics.ScanRegions = info.Regions.ScanRegions
	}
}
