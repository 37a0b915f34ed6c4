package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/gridscan"
	"github.com/tsawler/gridscan/model"
	"github.com/tsawler/gridscan/plot"
)

func newPlotCmd() *cobra.Command {
	var (
		page   int
		kinds  string
		scale  float64
		output string
		images string
	)

	cmd := &cobra.Command{
		Use:   "plot <layout.json>",
		Short: "Render a page and its detected tables to PNG",
		Long: `Plot draws one page with overlays for text boxes, ruling lines, table
grids and table contours, to check what detection found.

Examples:
  gridscan plot doc.json --page 2 -o page2.png
  gridscan plot doc.json --page 1 --kind grid,contour --scale 3 -o grid.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := plot.DefaultOptions()
			opts.Scale = scale
			if kinds != "" {
				k, err := plot.ParseKinds(kinds)
				if err != nil {
					return err
				}
				opts.Kinds = k
			}

			e := gridscan.Open(args[0])
			pages, err := e.Layout()
			if err != nil {
				return err
			}
			var target *model.Page
			for _, p := range pages {
				if p.Number == page {
					target = p
					break
				}
			}
			if target == nil {
				return fmt.Errorf("page %d not found", page)
			}

			if images != "" {
				e = e.Images(dirImages{dir: images})
			}
			found, warnings, err := e.Pages(page).Tables(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range warnings {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			return writePlot(output, target, found, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&page, "page", 1, "Page number to plot")
	flags.StringVar(&kinds, "kind", "", "Overlays: text, line, grid, contour (default all)")
	flags.Float64Var(&scale, "scale", 2, "Pixels per point")
	flags.StringVarP(&output, "output", "o", "", "PNG file to write")
	flags.StringVar(&images, "images", "", "Directory of page-<n>.png renders for pages without ruling segments")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func writePlot(path string, page *model.Page, found []*model.Table, opts plot.Options) (err error) {
	file, err := createOutput(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()
	return plot.WritePNG(file, page, found, opts)
}
