// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"anistream/internal/config"
	"anistream/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

// downloadToConfigDir is the --download value used when the flag has no argument.
const downloadToConfigDir = "-"

// Global flags
var (
	flagDownload string
	flagPlayer   string
	flagJSON     bool
	flagDebug    bool
)

var (
	// cfg holds the loaded configuration (merged: defaults < config file < flags).
	cfg    *config.Config
	logger = zap.NewNop()
	deps   *app
)

var rootCmd = &cobra.Command{
	Use:   "anistream [query]",
	Short: "Stream Greek-subtitled anime from an1me.to in the terminal",
	Long: `Anistream searches an1me.to, lists a series' episodes and resolves an
episode page to a playable stream by watching the page's network traffic in a
headless browser. Streams play in mpv/vlc/iina/celluloid or download with ffmpeg.`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: loadConfig,
	RunE:              searchRun,
	SilenceUsage:      true,
}

// Execute runs the root command and releases the browser session afterwards.
func Execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)

	if deps != nil {
		deps.close()
	}
	_ = logger.Sync()

	if err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDownload, "download", "d", "", "Download to path instead of playing (no value: configured download_dir)")
	rootCmd.PersistentFlags().Lookup("download").NoOptDefVal = downloadToConfigDir
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output streams as JSON instead of playing")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(episodesCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	cfg.Player = strings.ToLower(cfg.Player)
	if flagDebug {
		cfg.Debug = true
	}

	// Re-validate after flag overrides
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err = logging.New(cfg.Debug)
	if err != nil {
		return err
	}

	deps = newApp(cfg, logger)
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	// Skip config loading; a broken config file should not hide the version.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "anistream %s\n", Version)
	},
}
