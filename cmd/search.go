package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anistream/internal/download"
	"anistream/internal/media"
	"anistream/internal/player"
	"anistream/internal/provider"
	"anistream/internal/ui"
)

// searchRun is the default command: anistream <query>
func searchRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	query := strings.Join(args, " ")

	if query == "" {
		// Prompt for query via fzf
		var err error
		query, err = ui.Input(ctx, "Search")
		if err != nil {
			return fmt.Errorf("no search query provided")
		}
	}

	logger.Debug("searching", zap.String("query", query))

	results, err := deps.site.Search(ctx, query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		fmt.Printf("No results for %q.\n", query)
		return nil
	}
	return pickAndWatch(ctx, "Select", results)
}

// pickAndWatch lets the user pick a series card and continues with its episodes.
func pickAndWatch(ctx context.Context, prompt string, results []media.SearchResult) error {
	items := make([]string, len(results))
	for i, r := range results {
		items[i] = provider.FormatDisplayTitle(r)
	}

	idx, err := ui.Select(ctx, prompt, items)
	if err != nil {
		return err
	}

	selected := results[idx]
	logger.Debug("selected series", zap.String("slug", selected.Slug), zap.String("title", selected.Title))

	return watchSeries(ctx, selected.Slug, 0)
}

// watchSeries loads the series catalog, lets the user pick an episode unless
// one is given, and delivers it.
func watchSeries(ctx context.Context, slug string, episode int) error {
	series, err := deps.site.Series(ctx, slug)
	if err != nil {
		return err
	}
	if len(series.Episodes) == 0 {
		return fmt.Errorf("no episodes for %s: %s", slug, emptyCatalogReason(series.Signal))
	}

	if episode == 0 {
		items := make([]string, len(series.Episodes))
		for i, ep := range series.Episodes {
			items[i] = ep.Title
		}
		idx, err := ui.Select(ctx, "Episode", items)
		if err != nil {
			return err
		}
		episode = series.Episodes[idx].Number
	}

	return deliver(ctx, series.Title, slug, episode)
}

// deliver resolves an episode and prints, downloads or plays the result.
func deliver(ctx context.Context, seriesTitle, slug string, episode int) error {
	fmt.Fprintf(os.Stderr, "Resolving episode %d...\n", episode)
	res := deps.resolveEpisode(ctx, slug, episode)

	if flagJSON {
		return writeJSON(os.Stdout, newResolutionOutput(res))
	}

	stream, ok := res.Direct()
	if !ok {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fmt.Fprintf(os.Stderr, "No direct stream found (%v).\nWatch in browser: %s\n", res.Err, res.PageURL)
		return nil
	}
	logger.Debug("stream resolved", zap.String("url", stream.URL), zap.String("id", res.ID))

	title := episodeTitle(seriesTitle, episode)

	if flagDownload != "" {
		dir := flagDownload
		if dir == downloadToConfigDir {
			var err error
			dir, err = cfg.ExpandDownloadDir()
			if err != nil {
				return fmt.Errorf("resolving download dir: %w", err)
			}
		}
		outputPath, err := download.Download(ctx, stream, title, dir)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Downloaded: %s\n", outputPath)
		return nil
	}

	p := player.New(cfg.Player)
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH; stream URL: %s", cfg.Player, stream.URL)
	}

	if err := p.Play(ctx, stream, title); err != nil {
		if errors.Is(err, player.ErrNotPlayable) {
			fmt.Fprintf(os.Stderr, "Watch in browser: %s\n", res.PageURL)
			return nil
		}
		return fmt.Errorf("playback failed: %w", err)
	}
	return nil
}
