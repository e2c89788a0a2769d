// Package cmd defines and implements the CLI commands for the pagewatch executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pagewatch",
		Short: "Batch collector for PageSpeed Insights performance metrics.",
		Long: `pagewatch fetches Google PageSpeed Insights performance metrics for a
list of URLs and maintains a resumable, deduplicated dataset on disk
(JSON + CSV). Interrupted runs pick up after the last recorded URL, and
already-fetched URLs are skipped unless a refetch is forced.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default searches ., $HOME/.pagewatch)")

	cmd.AddCommand(newRunCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
