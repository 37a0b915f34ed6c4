package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/gridscan"
	"github.com/tsawler/gridscan/model"
)

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "layout <layout.json>",
		Short: "Summarise the pages of a layout document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := gridscan.Open(args[0]).Layout()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range pages {
				vertical := 0
				for _, f := range p.Text {
					if f.Direction == model.DirectionVertical {
						vertical++
					}
				}
				fmt.Fprintf(out, "page %d: %gx%g, %d fragments (%d vertical), %d segments, %d images\n",
					p.Number, p.Width, p.Height, len(p.Text), vertical, len(p.Segments), len(p.Images))
			}
			return nil
		},
	}
}
