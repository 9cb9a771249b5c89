package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"anistream/internal/media"
	"anistream/internal/provider"
)

var episodesCmd = &cobra.Command{
	Use:   "episodes <slug>",
	Short: "Show a series' metadata and episode catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  episodesRun,
}

func episodesRun(cmd *cobra.Command, args []string) error {
	slug := normalizeSlug(args[0])

	series, err := deps.site.Series(cmd.Context(), slug)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(os.Stdout, newSeriesOutput(series))
	}

	fmt.Printf("%s\n", series.Title)
	if len(series.Genres) > 0 {
		fmt.Printf("Genres:   %s\n", strings.Join(series.Genres, ", "))
	}
	if series.Rating != "" {
		fmt.Printf("Rating:   %s\n", series.Rating)
	}
	fmt.Printf("Episodes: %d (%s)\n", series.Signal.Count, series.Signal.Source)
	if len(series.Episodes) == 0 {
		fmt.Printf("No catalog built: %s.\n", emptyCatalogReason(series.Signal))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, ep := range series.Episodes {
		fmt.Fprintf(w, "%d\t%s\t%s\n", ep.Number, ep.Title, ep.ID)
	}
	return w.Flush()
}

// normalizeSlug accepts a bare slug or a series/watch link.
func normalizeSlug(arg string) string {
	if slug := provider.ExtractSlug(arg); slug != "" {
		return slug
	}
	return strings.TrimRight(strings.TrimPrefix(arg, "an1me:"), "/")
}

// emptyCatalogReason explains why a count produced no episodes.
func emptyCatalogReason(signal media.EpisodeCountSignal) string {
	if signal.Count > cfg.Episodes.MaxCount {
		return fmt.Sprintf("count %d from %s exceeds %d", signal.Count, signal.Source, cfg.Episodes.MaxCount)
	}
	return fmt.Sprintf("count %d from %s is not a valid episode count", signal.Count, signal.Source)
}
