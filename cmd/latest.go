package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Browse the series listed on the home page",
	Args:  cobra.NoArgs,
	RunE:  latestRun,
}

func latestRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	results, err := deps.site.Latest(ctx)
	if err != nil {
		return fmt.Errorf("getting latest: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No series listed.")
		return nil
	}

	return pickAndWatch(ctx, "Latest", results)
}
