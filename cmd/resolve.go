package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"anistream/internal/httputil"
	"anistream/internal/provider"
)

var flagPlay bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <slug> <episode>",
	Short: "Resolve one episode and play, download or print its stream",
	Args:  cobra.ExactArgs(2),
	RunE:  resolveRun,
}

func init() {
	resolveCmd.Flags().BoolVarP(&flagPlay, "play", "p", false, "Play the stream instead of listing it")
}

func resolveRun(cmd *cobra.Command, args []string) error {
	slug := normalizeSlug(args[0])
	if err := httputil.ValidateSlug(slug); err != nil {
		return fmt.Errorf("invalid series slug: %w", err)
	}

	episode, err := strconv.Atoi(args[1])
	if err != nil || episode < 1 {
		return fmt.Errorf("episode must be a positive number, got %q", args[1])
	}

	if flagJSON || flagPlay || flagDownload != "" {
		return deliver(cmd.Context(), provider.TitleFromSlug(slug), slug, episode)
	}

	res := deps.resolveEpisode(cmd.Context(), slug, episode)
	for _, s := range res.Streams {
		if s.Direct() {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", s.Name, s.URL)
		} else {
			fmt.Fprintf(os.Stdout, "%s\t%s\n", s.Name, s.ExternalURL)
		}
	}
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "No direct stream: %v\n", res.Err)
	}
	return nil
}
