package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anistream/internal/config"
	"anistream/internal/history"
	"anistream/internal/ui"
)

const historyLimit = 50

var flagClearHistory bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent resolutions and re-watch one",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagClearHistory, "clear", false, "Delete all history entries")
}

func historyRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	path, err := config.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(ctx, path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	if flagClearHistory {
		if err := store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Cleared history in %s\n", store.Path())
		return nil
	}

	entries, err := store.Recent(ctx, historyLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if flagJSON {
		return writeJSON(os.Stdout, newHistoryOutput(entries))
	}

	if len(entries) == 0 {
		fmt.Printf("No history entries found in %s.\n", store.Path())
		return nil
	}

	// Show history in fzf
	idx, err := ui.Select(ctx, "History", history.FormatForDisplay(entries))
	if err != nil {
		return err
	}

	selected := entries[idx]
	logger.Debug("re-watching from history",
		zap.String("slug", selected.Slug),
		zap.Int("episode", selected.Episode))

	// Resolve again: the stored stream URL has most likely expired.
	return watchSeries(ctx, selected.Slug, selected.Episode)
}
