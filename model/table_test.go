package model

import (
	"strings"
	"testing"
)

func testGrid() *TableGrid {
	return NewTableGrid([]float64{0, 50, 100, 150}, []float64{100, 60, 20})
}

func TestNewTable(t *testing.T) {
	table := NewTable(testGrid())

	if table.RowCount() != 2 {
		t.Errorf("RowCount() = %d, want 2", table.RowCount())
	}
	if table.ColCount() != 3 {
		t.Errorf("ColCount() = %d, want 3", table.ColCount())
	}

	cell := table.GetCell(1, 2)
	want := NewBBox(100, 20, 50, 40)
	if cell.BBox != want {
		t.Errorf("cell(1,2).BBox = %+v, want %+v", cell.BBox, want)
	}
	if cell.Left || cell.Right || cell.Top || cell.Bottom {
		t.Error("new cells should have no edges")
	}
}

func TestTableGridCounts(t *testing.T) {
	tests := []struct {
		name       string
		grid       *TableGrid
		rows, cols int
	}{
		{"normal", testGrid(), 2, 3},
		{"single boundary", NewTableGrid([]float64{0}, []float64{10}), 0, 0},
		{"empty", &TableGrid{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.grid.RowCount() != tt.rows || tt.grid.ColCount() != tt.cols {
				t.Errorf("counts = (%d, %d), want (%d, %d)",
					tt.grid.RowCount(), tt.grid.ColCount(), tt.rows, tt.cols)
			}
		})
	}
}

func TestGetCellBBoxOutOfRange(t *testing.T) {
	if got := testGrid().GetCellBBox(5, 0); got != (BBox{}) {
		t.Errorf("GetCellBBox(5,0) = %+v, want zero", got)
	}
}

func TestTableGetCell(t *testing.T) {
	table := NewTable(testGrid())
	table.Cells[0][0].Text = "Test"

	t.Run("valid cell", func(t *testing.T) {
		cell := table.GetCell(0, 0)
		if cell == nil || cell.Text != "Test" {
			t.Error("GetCell(0,0) should return the cell")
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		if table.GetCell(10, 0) != nil || table.GetCell(0, 10) != nil {
			t.Error("out of bounds GetCell should return nil")
		}
	})

	t.Run("negative indices", func(t *testing.T) {
		if table.GetCell(-1, 0) != nil || table.GetCell(0, -1) != nil {
			t.Error("negative indices should return nil")
		}
	})
}

func TestCellAppendText(t *testing.T) {
	var c Cell
	c.AppendText("first")
	c.AppendText("")
	c.AppendText("second")

	if c.Text != "first\nsecond" {
		t.Errorf("Text = %q", c.Text)
	}
}

func TestCellSpans(t *testing.T) {
	c := Cell{Left: true, Right: false, Top: true, Bottom: true}
	if !c.HSpan() {
		t.Error("missing right edge should be a horizontal span")
	}
	if c.VSpan() {
		t.Error("closed top and bottom should not be a vertical span")
	}
}

func TestSetAllEdges(t *testing.T) {
	table := NewTable(testGrid())
	table.SetAllEdges()
	for i := range table.Cells {
		for j := range table.Cells[i] {
			c := table.Cells[i][j]
			if c.HSpan() || c.VSpan() {
				t.Fatalf("cell (%d,%d) still spans", i, j)
			}
		}
	}
}

func TestTableDataAndMarkdown(t *testing.T) {
	table := NewTable(NewTableGrid([]float64{0, 10, 20}, []float64{20, 10, 0}))
	table.Cells[0][0].Text = "Name"
	table.Cells[0][1].Text = "Value "
	table.Cells[1][0].Text = "a,b"
	table.Cells[1][1].Text = "say \"hi\""

	data := table.Data()
	if data[0][1] != "Value" {
		t.Errorf("Data()[0][1] = %q, want %q", data[0][1], "Value")
	}

	md := table.ToMarkdown()
	if !strings.HasPrefix(md, "| Name | Value |\n|---|---|\n") {
		t.Errorf("ToMarkdown() header wrong: %q", md)
	}
}

func TestFlavorString(t *testing.T) {
	if FlavorLattice.String() != "lattice" || FlavorStream.String() != "stream" {
		t.Error("unexpected flavor names")
	}
	if Flavor(99).String() != "unknown" {
		t.Error("unknown flavor should stringify as unknown")
	}
}
