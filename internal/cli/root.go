// Package cli implements the gridscan command line using Cobra.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridscan",
		Short: "gridscan - find and extract tables from page layouts",
		Long: `gridscan reads a JSON layout document (text fragments, ruling segments and
image regions per page) and extracts the tables on each page.

Usage:
  gridscan extract <layout.json> [flags]
  gridscan layout <layout.json>
  gridscan plot <layout.json> --page N -o page.png

Flags left unset fall back to GRIDSCAN_WORKERS, GRIDSCAN_FORMAT,
GRIDSCAN_IMAGES and GRIDSCAN_VERBOSE, read from the environment or a .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return applyEnv(cmd.Flags())
		},
	}
	root.AddCommand(newExtractCmd(), newLayoutCmd(), newPlotCmd())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
