package cli

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/gridscan/export"
	"github.com/tsawler/gridscan/model"
	"github.com/tsawler/gridscan/tables"
)

const twoPageLayout = `{
  "pages": [
    {
      "width": 400,
      "height": 400,
      "text": [
        {"text": "a", "x0": 50, "y0": 340, "x1": 90, "y1": 350},
        {"text": "b", "x0": 150, "y0": 340, "x1": 190, "y1": 350},
        {"text": "c", "x0": 250, "y0": 340, "x1": 290, "y1": 350},
        {"text": "d", "x0": 50, "y0": 320, "x1": 90, "y1": 330},
        {"text": "e", "x0": 150, "y0": 320, "x1": 190, "y1": 330},
        {"text": "f", "x0": 250, "y0": 320, "x1": 290, "y1": 330}
      ]
    },
    {"width": 400, "height": 400}
  ]
}`

func writeLayout(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := os.WriteFile(path, []byte(twoPageLayout), 0o644); err != nil {
		t.Fatalf("failed to write layout: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// ============================================================================
// Commands
// ============================================================================

func TestExtractCommand_CSV(t *testing.T) {
	stdout, stderr, err := run(t, "extract", writeLayout(t))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if stdout != "a,b,c\nd,e,f\n" {
		t.Errorf("Unexpected CSV output %q", stdout)
	}
	if !strings.Contains(stderr, "warning: page 2:") {
		t.Errorf("Expected an empty page warning, got %q", stderr)
	}
}

func TestExtractCommand_PageSelection(t *testing.T) {
	stdout, stderr, err := run(t, "extract", writeLayout(t), "--pages", "1", "--format", "md")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(stdout, "| a | b | c |") {
		t.Errorf("Expected a markdown table, got %q", stdout)
	}
	if stderr != "" {
		t.Errorf("Expected no warnings, got %q", stderr)
	}
}

func TestExtractCommand_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "tables.json")
	_, stderr, err := run(t, "extract", writeLayout(t), "-o", out)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), `"flavor"`) {
		t.Errorf("Expected JSON output, got %s", data)
	}
	if !strings.Contains(stderr, "wrote 1 tables to") {
		t.Errorf("Expected summary line, got %q", stderr)
	}
}

func TestExtractCommand_Errors(t *testing.T) {
	path := writeLayout(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing argument", []string{"extract"}},
		{"missing file", []string{"extract", filepath.Join(t.TempDir(), "none.json")}},
		{"bad format", []string{"extract", path, "--format", "pdf"}},
		{"bad pages", []string{"extract", path, "--pages", "x"}},
		{"page out of range", []string{"extract", path, "--pages", "9"}},
		{"bad workers", []string{"extract", path, "--workers", "-2"}},
		{"bad area", []string{"extract", path, "--area", "1,2,3"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := run(t, tc.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestLayoutCommand(t *testing.T) {
	stdout, _, err := run(t, "layout", writeLayout(t))
	if err != nil {
		t.Fatalf("layout failed: %v", err)
	}
	want := "page 1: 400x400, 6 fragments (0 vertical), 0 segments, 0 images\n" +
		"page 2: 400x400, 0 fragments (0 vertical), 0 segments, 0 images\n"
	if stdout != want {
		t.Errorf("Expected %q, got %q", want, stdout)
	}
}

// ============================================================================
// Flag parsing
// ============================================================================

func TestParsePages(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"1", []int{1}, false},
		{"1,3-5", []int{1, 3, 4, 5}, false},
		{" 2 , 4 ", []int{2, 4}, false},
		{"5-3", nil, true},
		{"0", nil, true},
		{"a-b", nil, true},
		{",", nil, true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parsePages(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Expected error %v, got %v", tc.wantErr, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestParseArea(t *testing.T) {
	area, err := parseArea("10, 20, 110, 70")
	if err != nil {
		t.Fatalf("parseArea failed: %v", err)
	}
	if area != model.NewBBox(10, 20, 100, 50) {
		t.Errorf("Unexpected area %v", area)
	}
	if _, err := parseArea("1,2,x,4"); err == nil {
		t.Error("Expected an error for a non-numeric corner")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name, format, output string
		want                 export.Format
	}{
		{"default", "", "", export.FormatCSV},
		{"explicit", "json", "out.xlsx", export.FormatJSON},
		{"from extension", "", "out.xlsx", export.FormatXLSX},
		{"unknown extension", "", "out.txt", export.FormatCSV},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := resolveFormat(tc.format, tc.output)
			if err != nil {
				t.Fatalf("resolveFormat failed: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected %s, got %s", tc.want, got)
			}
		})
	}
}

// ============================================================================
// Image directory
// ============================================================================

func TestDirImages(t *testing.T) {
	dir := t.TempDir()
	img := image.NewGray(image.Rect(0, 0, 8, 4))
	img.SetGray(1, 1, color.Gray{Y: 0})

	f, err := os.Create(filepath.Join(dir, "page-2.png"))
	if err != nil {
		t.Fatalf("failed to create image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	f.Close()

	images := dirImages{dir: dir}

	got, err := images.PageImage(2)
	if err != nil {
		t.Fatalf("PageImage failed: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("Expected bounds %v, got %v", img.Bounds(), got.Bounds())
	}

	if _, err := images.PageImage(1); !errors.Is(err, tables.ErrNoImage) {
		t.Errorf("Expected ErrNoImage, got %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "page-3.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := images.PageImage(3); err == nil || errors.Is(err, tables.ErrNoImage) {
		t.Errorf("Expected a decode error, got %v", err)
	}
}

func TestPlotCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "page.png")
	if _, _, err := run(t, "plot", writeLayout(t), "--page", "1", "--kind", "text,contour", "-o", out); err != nil {
		t.Fatalf("plot failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("failed to open plot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Expected a PNG, got %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(800, 800) {
		t.Errorf("Expected 800x800, got %v", got)
	}
}

func TestPlotCommand_Errors(t *testing.T) {
	path := writeLayout(t)
	out := filepath.Join(t.TempDir(), "page.png")

	tests := []struct {
		name string
		args []string
	}{
		{"missing output", []string{"plot", path}},
		{"unknown page", []string{"plot", path, "--page", "5", "-o", out}},
		{"unknown kind", []string{"plot", path, "--kind", "joint", "-o", out}},
		{"bad scale", []string{"plot", path, "--scale", "0", "-o", out}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := run(t, tc.args...); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

// ============================================================================
// Environment
// ============================================================================

func TestExtractCommand_EnvDefaults(t *testing.T) {
	t.Setenv("GRIDSCAN_FORMAT", "json")
	path := writeLayout(t)

	stdout, _, err := run(t, "extract", path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if !strings.Contains(stdout, `"flavor"`) {
		t.Errorf("Expected JSON from the environment default, got %q", stdout)
	}

	stdout, _, err = run(t, "extract", path, "--format", "csv")
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if stdout != "a,b,c\nd,e,f\n" {
		t.Errorf("Expected the flag to win over the environment, got %q", stdout)
	}
}

func TestExtractCommand_InvalidEnv(t *testing.T) {
	t.Setenv("GRIDSCAN_WORKERS", "many")
	_, _, err := run(t, "extract", writeLayout(t))
	if err == nil || !strings.Contains(err.Error(), "GRIDSCAN_WORKERS") {
		t.Errorf("Expected an error naming GRIDSCAN_WORKERS, got %v", err)
	}
}

func TestLoadEnv(t *testing.T) {
	const name = "GRIDSCAN_TEST_LOAD_ENV"
	t.Cleanup(func() { os.Unsetenv(name) })

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(name+"=42\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	if err := loadEnv(path); err != nil {
		t.Fatalf("loadEnv failed: %v", err)
	}
	if got := os.Getenv(name); got != "42" {
		t.Errorf("Expected 42, got %q", got)
	}

	if err := loadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("Expected a missing file to be ignored, got %v", err)
	}
}
