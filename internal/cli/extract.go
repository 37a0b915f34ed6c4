package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/gridscan"
	"github.com/tsawler/gridscan/export"
	"github.com/tsawler/gridscan/model"
)

type extractFlags struct {
	format    string
	output    string
	pages     string
	workers   int
	splitText bool
	flagSize  bool
	stripText string
	shiftText []string
	copyText  []string
	areas     []string
	images    string
	verbose   bool
}

func newExtractCmd() *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract <layout.json>",
		Short: "Extract tables from a layout document",
		Long: `Extract detects tables on every selected page and writes them in the
requested format. Warnings for empty or unsupported pages go to stderr.

Examples:
  gridscan extract doc.json
  gridscan extract doc.json --pages 1,3-5 --format markdown
  gridscan extract doc.json -o tables.xlsx
  gridscan extract doc.json --images ./renders --verbose`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.format, "format", "f", "", "Output format: csv, markdown, xlsx or json (default from --output extension, else csv)")
	flags.StringVarP(&f.output, "output", "o", "", "Output file (default stdout)")
	flags.StringVarP(&f.pages, "pages", "p", "", "Pages to process, e.g. 1,3-5 (default all)")
	flags.IntVarP(&f.workers, "workers", "w", 0, "Pages processed concurrently (default number of CPUs)")
	flags.BoolVar(&f.splitText, "split-text", false, "Split fragments that span several cells")
	flags.BoolVar(&f.flagSize, "flag-size", false, "Mark superscripts and subscripts with <s></s>")
	flags.StringVar(&f.stripText, "strip-text", "", "Characters to strip from the edges of cell text")
	flags.StringSliceVar(&f.shiftText, "shift-text", nil, "Directions to shift spanning text: l, r, t, b")
	flags.StringSliceVar(&f.copyText, "copy-text", nil, "Directions to copy spanning text: h, v")
	flags.StringArrayVar(&f.areas, "area", nil, "Table area x0,y0,x1,y1 in points (repeatable)")
	flags.StringVar(&f.images, "images", "", "Directory of page-<n>.png renders for pages without ruling segments")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Log detection events to stderr")

	return cmd
}

func runExtract(cmd *cobra.Command, path string, f extractFlags) error {
	format, err := resolveFormat(f.format, f.output)
	if err != nil {
		return err
	}

	e := gridscan.Open(path)
	if f.workers != 0 {
		e = e.Workers(f.workers)
	}
	if f.pages != "" {
		pages, err := parsePages(f.pages)
		if err != nil {
			return err
		}
		e = e.Pages(pages...)
	}
	if f.splitText {
		e = e.SplitText()
	}
	if f.flagSize {
		e = e.FlagSize()
	}
	if f.stripText != "" {
		e = e.StripText(f.stripText)
	}
	if len(f.shiftText) > 0 {
		e = e.ShiftText(f.shiftText...)
	}
	if len(f.copyText) > 0 {
		e = e.CopyText(f.copyText...)
	}
	if len(f.areas) > 0 {
		areas := make([]model.BBox, 0, len(f.areas))
		for _, s := range f.areas {
			area, err := parseArea(s)
			if err != nil {
				return err
			}
			areas = append(areas, area)
		}
		e = e.TableAreas(areas...)
	}
	if f.images != "" {
		e = e.Images(dirImages{dir: f.images})
	}
	if f.verbose {
		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
		e = e.Logger(logger)
	}

	found, warnings, err := e.Tables(cmd.Context())
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	if f.output == "" {
		return export.Write(cmd.OutOrStdout(), format, found)
	}
	if err := writeFile(f.output, format, found); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d tables to %s\n", len(found), f.output)
	return nil
}

func writeFile(path string, format export.Format, found []*model.Table) (err error) {
	file, err := createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return export.Write(file, format, found)
}

func createOutput(path string) (*os.File, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output: %w", err)
	}
	return file, nil
}

// resolveFormat picks the explicit format, else the output extension, else CSV.
func resolveFormat(name, output string) (export.Format, error) {
	if name != "" {
		return export.ParseFormat(name)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		if format, err := export.ParseFormat(ext); err == nil {
			return format, nil
		}
	}
	return export.FormatCSV, nil
}

// parsePages accepts comma separated page numbers and inclusive ranges.
func parsePages(s string) ([]int, error) {
	var pages []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid page %q", part)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(strings.TrimSpace(hi)); err != nil {
				return nil, fmt.Errorf("invalid page range %q", part)
			}
		}
		if start < 1 || end < start {
			return nil, fmt.Errorf("invalid page range %q", part)
		}
		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("no pages in %q", s)
	}
	return pages, nil
}

func parseArea(s string) (model.BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return model.BBox{}, fmt.Errorf("invalid area %q: want x0,y0,x1,y1", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return model.BBox{}, fmt.Errorf("invalid area %q: %w", s, err)
		}
		v[i] = f
	}
	return model.NewBBoxFromCorners(v[0], v[1], v[2], v[3]), nil
}
