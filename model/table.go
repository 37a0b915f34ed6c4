package model

import "strings"

// Flavor identifies the strategy that built a table.
type Flavor int

const (
	FlavorUnknown Flavor = iota
	// FlavorLattice tables come from drawn ruling lines.
	FlavorLattice
	// FlavorStream tables come from whitespace between text.
	FlavorStream
)

func (f Flavor) String() string {
	switch f {
	case FlavorLattice:
		return "lattice"
	case FlavorStream:
		return "stream"
	default:
		return "unknown"
	}
}

// Table represents a table with cells organized in rows and columns
type Table struct {
	Cells [][]Cell
	Grid  *TableGrid
	BBox  BBox // Source region the table was built from

	Flavor     Flavor
	Accuracy   float64 // 0-100, alignment of text with the grid
	Whitespace float64 // 0-100, share of empty cells
	Order      int     // 1-based position among the page's tables
	Page       int
	Shape      [2]int // rows, cols

	Diagnostics TableDiagnostics
}

// TableDiagnostics holds read-only back-links to the inputs a table was
// built from. Which fields are set depends on the table's Flavor.
type TableDiagnostics struct {
	Text               []BBox
	VerticalSegments   []Segment
	HorizontalSegments []Segment
	ScanRegions        []BBox
}

// NewTable creates a table whose cells follow grid. Every cell starts with
// empty text and no edges.
func NewTable(grid *TableGrid) *Table {
	rows, cols := grid.RowCount(), grid.ColCount()
	table := &Table{
		Cells: make([][]Cell, rows),
		Grid:  grid,
	}
	for i := 0; i < rows; i++ {
		table.Cells[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Cells[i][j] = Cell{BBox: grid.GetCellBBox(i, j)}
		}
	}
	return table
}

// Data returns the trimmed text of every cell.
func (t *Table) Data() [][]string {
	data := make([][]string, len(t.Cells))
	for i, row := range t.Cells {
		data[i] = make([]string, len(row))
		for j, cell := range row {
			data[i][j] = strings.TrimSpace(cell.Text)
		}
	}
	return data
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Cells)
}

// ColCount returns the number of columns in the first row
func (t *Table) ColCount() int {
	if len(t.Cells) == 0 {
		return 0
	}
	return len(t.Cells[0])
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Cells) {
		return nil
	}
	if col < 0 || col >= len(t.Cells[row]) {
		return nil
	}
	return &t.Cells[row][col]
}

// SetAllEdges marks every cell as bounded on all four sides.
func (t *Table) SetAllEdges() {
	for i := range t.Cells {
		for j := range t.Cells[i] {
			c := &t.Cells[i][j]
			c.Left, c.Right, c.Top, c.Bottom = true, true, true, true
		}
	}
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	data := t.Data()
	if len(data) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []string) {
		for j, text := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(text, "\n", " "))
			sb.WriteString(" ")
			if j == len(row)-1 {
				sb.WriteString("|")
			}
		}
		sb.WriteString("\n")
	}

	// Header row
	writeRow(data[0])

	// Separator
	for j := range data[0] {
		sb.WriteString("|---")
		if j == len(data[0])-1 {
			sb.WriteString("|")
		}
	}
	sb.WriteString("\n")

	for _, row := range data[1:] {
		writeRow(row)
	}

	return sb.String()
}

// Cell represents a table cell
type Cell struct {
	Text string
	BBox BBox

	// Whether a ruling line bounds the cell on each side
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

// HSpan reports whether the cell is part of a horizontally merged cell.
func (c *Cell) HSpan() bool {
	return !c.Left || !c.Right
}

// VSpan reports whether the cell is part of a vertically merged cell.
func (c *Cell) VSpan() bool {
	return !c.Top || !c.Bottom
}

// AppendText adds text to the cell buffer, separating it from existing
// content with a newline.
func (c *Cell) AppendText(text string) {
	if text == "" {
		return
	}
	if c.Text != "" {
		c.Text += "\n"
	}
	c.Text += text
}

// TableGrid represents the detected grid structure
type TableGrid struct {
	Rows []float64 // Y-coordinates of row boundaries, descending
	Cols []float64 // X-coordinates of column boundaries, ascending
}

// NewTableGrid creates a grid from column and row boundaries.
func NewTableGrid(cols, rows []float64) *TableGrid {
	return &TableGrid{Cols: cols, Rows: rows}
}

// RowCount returns the number of rows
func (g *TableGrid) RowCount() int {
	if len(g.Rows) <= 1 {
		return 0
	}
	return len(g.Rows) - 1
}

// ColCount returns the number of columns
func (g *TableGrid) ColCount() int {
	if len(g.Cols) <= 1 {
		return 0
	}
	return len(g.Cols) - 1
}

// GetCellBBox returns the bounding box for a cell
func (g *TableGrid) GetCellBBox(row, col int) BBox {
	if row < 0 || row >= g.RowCount() || col < 0 || col >= g.ColCount() {
		return BBox{}
	}
	return BBox{
		X:      g.Cols[col],
		Y:      g.Rows[row+1],
		Width:  g.Cols[col+1] - g.Cols[col],
		Height: g.Rows[row] - g.Rows[row+1],
	}
}
