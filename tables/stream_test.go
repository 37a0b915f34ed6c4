package tables

import (
	"errors"
	"testing"

	"github.com/tsawler/gridscan/model"
)

// Helper to create a three-column row at the given height
func streamRow(y0, y1 float64, texts ...string) []model.TextFragment {
	xs := [][2]float64{{10, 50}, {110, 150}, {210, 250}}
	var row []model.TextFragment
	for i, text := range texts {
		row = append(row, frag(text, xs[i][0], y0, xs[i][1], y1))
	}
	return row
}

func buildStream(t *testing.T, config Config, region model.BBox, text []model.TextFragment, horizontal []model.Segment) *model.Table {
	t.Helper()
	page := model.NewPage(300, 300)
	page.Text = text
	pc := NewPageContext(page)

	s := NewStream(config)
	sel := Select(pc, region, nil, horizontal)
	table, err := s.BuildTable(pc, Region{BBox: region}, sel)
	if err != nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	NewAssigner(config, s.Capabilities()).Assign(pc, table, sel)
	return table
}

func TestStream_BuildTable(t *testing.T) {
	var text []model.TextFragment
	text = append(text, streamRow(70, 80, "a", "b", "c")...)
	text = append(text, streamRow(30, 40, "d", "e", "f")...)

	table := buildStream(t, DefaultConfig(), model.NewBBox(0, 0, 300, 100), text, nil)

	wantRows := []float64{100, 55, 0}
	for i, y := range wantRows {
		if table.Grid.Rows[i] != y {
			t.Errorf("Expected rows %v, got %v", wantRows, table.Grid.Rows)
			break
		}
	}
	wantCols := []float64{0, 80, 180, 300}
	for i, x := range wantCols {
		if table.Grid.Cols[i] != x {
			t.Errorf("Expected cols %v, got %v", wantCols, table.Grid.Cols)
			break
		}
	}

	want := [][]string{{"a", "b", "c"}, {"d", "e", "f"}}
	got := table.Data()
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Errorf("Cell (%d,%d): expected %q, got %q", i, j, want[i][j], got[i][j])
			}
		}
	}
	if !table.Cells[0][0].Left || !table.Cells[1][2].Bottom {
		t.Error("Expected all edges set")
	}
}

func TestStream_RowHints(t *testing.T) {
	var text []model.TextFragment
	text = append(text, streamRow(70, 80, "a", "b", "c")...)
	text = append(text, streamRow(64, 68, "a2")...)
	text = append(text, streamRow(30, 40, "d", "e", "f")...)

	hints := []model.Segment{{X0: 0, Y0: 60, X1: 300, Y1: 60}}
	table := buildStream(t, DefaultConfig(), model.NewBBox(0, 0, 300, 100), text, hints)

	wantRows := []float64{100, 69, 60, 0}
	if len(table.Grid.Rows) != len(wantRows) {
		t.Fatalf("Expected rows %v, got %v", wantRows, table.Grid.Rows)
	}
	for i, y := range wantRows {
		if table.Grid.Rows[i] != y {
			t.Errorf("Expected rows %v, got %v", wantRows, table.Grid.Rows)
			break
		}
	}
	for i, want := range []string{"a", "a2", "d"} {
		if got := table.Cells[i][0].Text; got != want {
			t.Errorf("Row %d: expected %q, got %q", i, want, got)
		}
	}
}

func TestRowBoundaries(t *testing.T) {
	lines := [][]model.TextFragment{
		streamRow(70, 80, "a"),
		streamRow(50, 60, "b"),
		streamRow(30, 40, "c"),
	}
	box := model.NewBBox(0, 0, 300, 100)

	tests := []struct {
		name    string
		rulings []float64
		want    []float64
	}{
		{"text gaps only", nil, []float64{100, 65, 45, 0}},
		{"ruling replaces its gap", []float64{62}, []float64{100, 62, 45, 0}},
		{"ruling within tolerance of a gap", []float64{61}, []float64{100, 61, 45, 0}},
		{"ruling through a line adds a boundary", []float64{35}, []float64{100, 65, 45, 35, 0}},
		{"ruling on the region edge", []float64{100}, []float64{100, 65, 45, 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := rowBoundaries(box, lines, tc.rulings, 2)
			if len(got) != len(tc.want) {
				t.Fatalf("Expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestStream_ExtraColumnFromShortRow(t *testing.T) {
	var text []model.TextFragment
	text = append(text, streamRow(70, 80, "a", "b", "c")...)
	text = append(text, streamRow(50, 60, "d", "e", "f")...)
	text = append(text, frag("x", 160, 30, 200, 40))

	table := buildStream(t, DefaultConfig(), model.NewBBox(0, 0, 300, 100), text, nil)

	if table.ColCount() != 4 {
		t.Fatalf("Expected 4 columns, got %d (%v)", table.ColCount(), table.Grid.Cols)
	}
	if got := table.Cells[2][2].Text; got != "x" {
		t.Errorf("Expected x in its own column, got %q", got)
	}
}

func TestStream_EmptyRegion(t *testing.T) {
	table := buildStream(t, DefaultConfig(), model.NewBBox(0, 0, 300, 100), nil, nil)
	if table.RowCount() != 1 || table.ColCount() != 1 {
		t.Errorf("Expected 1x1 table, got %dx%d", table.RowCount(), table.ColCount())
	}
}

func TestStream_DetectRegions(t *testing.T) {
	var text []model.TextFragment
	text = append(text, wordRow(340, 350)...)
	text = append(text, wordRow(320, 330)...)
	text = append(text, wordRow(140, 150)...)
	text = append(text, wordRow(120, 130)...)

	page := model.NewPage(400, 400)
	page.Text = text
	pc := NewPageContext(page)

	hints := Hints{HorizontalSegments: []model.Segment{{X0: 0, Y0: 5, X1: 10, Y1: 5}}}
	rs, err := NewStream(DefaultConfig()).DetectRegions(pc, hints)
	if err != nil {
		t.Fatalf("DetectRegions failed: %v", err)
	}
	if len(rs.Regions) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(rs.Regions))
	}
	if len(rs.ScanRegions) != 2 {
		t.Errorf("Expected 2 scan regions, got %d", len(rs.ScanRegions))
	}
	if len(rs.HorizontalSegments) != 1 {
		t.Error("Expected hints to be carried through")
	}
}

func TestStream_PageTooLarge(t *testing.T) {
	page := model.NewPage(200000, 200000)
	page.Text = wordRow(100, 110)
	pc := NewPageContext(page)

	rs, err := NewStream(DefaultConfig()).DetectRegions(pc, Hints{})
	if !errors.Is(err, ErrPageTooLarge) {
		t.Fatalf("Expected ErrPageTooLarge, got %v", err)
	}
	if rs != nil {
		t.Errorf("Expected no regions, got %+v", rs)
	}

	// Explicit areas need no mask
	config := DefaultConfig()
	config.TableAreas = []model.BBox{model.NewBBox(0, 0, 400, 400)}
	if _, err := NewStream(config).DetectRegions(pc, Hints{}); err != nil {
		t.Errorf("Expected table areas to bypass the limit, got %v", err)
	}

	config = DefaultConfig()
	config.MaxPageSize = 0
	small := model.NewPage(14400, 500)
	small.Text = wordRow(100, 110)
	if _, err := NewStream(config).DetectRegions(NewPageContext(small), Hints{}); err != nil {
		t.Errorf("Expected no limit with MaxPageSize 0, got %v", err)
	}
}

func TestStream_TableAreas(t *testing.T) {
	page := model.NewPage(400, 400)
	page.Text = wordRow(100, 110)
	pc := NewPageContext(page)

	config := DefaultConfig()
	config.TableAreas = []model.BBox{model.NewBBox(0, 0, 200, 200), model.NewBBox(0, 250, 200, 100)}

	rs, err := NewStream(config).DetectRegions(pc, Hints{})
	if err != nil {
		t.Fatalf("DetectRegions failed: %v", err)
	}
	if len(rs.Regions) != 2 || rs.Regions[1].BBox != config.TableAreas[1] {
		t.Errorf("Expected the configured areas, got %+v", rs.Regions)
	}
	if rs.ScanRegions != nil {
		t.Error("No scan should run when areas are configured")
	}
}

func TestGroupRows(t *testing.T) {
	rows := groupRows([]model.TextFragment{
		frag("b", 100, 70, 120, 80),
		frag("c", 10, 30, 30, 40),
		frag("a", 10, 71, 30, 81),
	}, 2)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0][0].Text != "a" || rows[0][1].Text != "b" || rows[1][0].Text != "c" {
		t.Errorf("Unexpected grouping: %v", rows)
	}
}

func TestMergeIntervals(t *testing.T) {
	got := mergeIntervals([]interval{{50, 60}, {0, 10}, {9, 20}, {22, 30}}, 2)
	want := []interval{{0, 30}, {50, 60}}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}
