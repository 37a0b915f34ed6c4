package plot

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"reflect"
	"testing"

	"github.com/tsawler/gridscan/model"
)

func testPage() *model.Page {
	page := model.NewPage(100, 50)
	page.Segments = []model.Segment{{X0: 0, Y0: 25, X1: 100, Y1: 25}}
	page.Text = []model.TextFragment{{Text: "x", BBox: model.NewBBox(10, 30, 20, 10)}}
	return page
}

func testTable() *model.Table {
	table := model.NewTable(model.NewTableGrid([]float64{60, 80, 100}, []float64{20, 0}))
	table.SetAllEdges()
	table.BBox = model.NewBBoxFromCorners(60, 0, 100, 20)
	return table
}

func gray(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

// ============================================================================
// Rendering
// ============================================================================

func TestRender_Size(t *testing.T) {
	img, err := Render(testPage(), nil, DefaultOptions())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(200, 100) {
		t.Errorf("Expected 200x100, got %v", got)
	}
}

func TestRender_Line(t *testing.T) {
	opts := Options{Kinds: []Kind{KindLine}, Scale: 2, LineWidth: 2}
	img, err := Render(testPage(), nil, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// y=25 on a 50pt page is image row 50 at scale 2
	if g := gray(img, 100, 50); g > 128 {
		t.Errorf("Expected a dark pixel on the segment, got gray %d", g)
	}
	if g := gray(img, 100, 10); g != 255 {
		t.Errorf("Expected background away from the segment, got gray %d", g)
	}
}

func TestRender_OnlyRequestedKinds(t *testing.T) {
	opts := Options{Kinds: []Kind{KindContour}, Scale: 2, LineWidth: 2}
	img, err := Render(testPage(), nil, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if g := gray(img, 100, 50); g != 255 {
		t.Errorf("Expected segments to be skipped, got gray %d", g)
	}
}

func TestRender_Contour(t *testing.T) {
	opts := Options{Kinds: []Kind{KindContour}, Scale: 2, LineWidth: 2}
	img, err := Render(testPage(), []*model.Table{testTable()}, opts)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// Left edge of the table at x=60 is image column 120
	r, g, b, _ := img.At(120, 80).RGBA()
	if r == g && g == b {
		t.Errorf("Expected a colored contour pixel, got (%d, %d, %d)", r, g, b)
	}
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name string
		page *model.Page
		opts Options
	}{
		{"nil page", nil, DefaultOptions()},
		{"zero size", model.NewPage(0, 10), DefaultOptions()},
		{"bad scale", testPage(), Options{Scale: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Render(tc.page, nil, tc.opts); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, testPage(), []*model.Table{testTable()}, DefaultOptions()); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("Expected a valid PNG, got %v", err)
	}
	if img.Bounds().Dx() != 200 {
		t.Errorf("Expected width 200, got %d", img.Bounds().Dx())
	}
}

// ============================================================================
// Options
// ============================================================================

func TestParseKinds(t *testing.T) {
	got, err := ParseKinds("grid, Contour")
	if err != nil {
		t.Fatalf("ParseKinds failed: %v", err)
	}
	if want := []Kind{KindGrid, KindContour}; !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}

	for _, bad := range []string{"", "joint", "text,,x"} {
		if _, err := ParseKinds(bad); err == nil {
			t.Errorf("Expected an error for %q", bad)
		}
	}
}

func TestTableColor(t *testing.T) {
	if TableColor(0) == TableColor(1) {
		t.Error("Expected distinct colors for neighbouring tables")
	}
	c := TableColor(4)
	if h, _, _ := c.Hsv(); math.Abs(h-math.Mod(4*137.508, 360)) > 0.01 {
		t.Errorf("Expected hue %.2f, got %.2f", math.Mod(4*137.508, 360), h)
	}
}
