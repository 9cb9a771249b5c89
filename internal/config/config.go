// Package config handles TOML-based configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config holds all application configuration.
type Config struct {
	Base              string   `toml:"base"`
	Player            string   `toml:"player"`
	History           bool     `toml:"history"`
	DownloadDir       string   `toml:"download_dir"`
	Debug             bool     `toml:"debug"`
	BrowserBin        string   `toml:"browser_bin"`         // empty: let the launcher find or fetch Chromium
	RequestsPerSecond int      `toml:"requests_per_second"` // static page fetches; 0 disables pacing
	Episodes          Episodes `toml:"episodes"`
}

// Episodes holds the episode-count inference thresholds.
type Episodes struct {
	// FallbackCount is used when a series page carries no usable count.
	FallbackCount int `toml:"fallback_count"`
	// MaxCount is the largest count considered plausible.
	MaxCount int `toml:"max_count"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Base:              "an1me.to",
		Player:            "mpv",
		History:           true,
		DownloadDir:       "~/Videos/anistream",
		Debug:             false,
		RequestsPerSecond: 2,
		Episodes: Episodes{
			FallbackCount: 50,
			MaxCount:      500,
		},
	}
}

// configDir returns the XDG-compliant config directory.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "anistream"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "anistream"), nil
}

// ConfigPath returns the path to the config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file and merges with defaults.
// If the config file doesn't exist, defaults are returned.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks config values are within acceptable bounds.
func (c *Config) Validate() error {
	validPlayers := map[string]bool{
		"mpv": true, "vlc": true, "iina": true, "celluloid": true,
	}
	if !validPlayers[strings.ToLower(c.Player)] {
		return fmt.Errorf("unsupported player %q (valid: mpv, vlc, iina, celluloid)", c.Player)
	}

	if c.Base == "" {
		return fmt.Errorf("base URL cannot be empty")
	}
	if strings.Contains(c.Base, "/") {
		return fmt.Errorf("base must be a bare host, got %q", c.Base)
	}

	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("requests_per_second cannot be negative")
	}

	if c.Episodes.MaxCount < 1 {
		return fmt.Errorf("episodes.max_count must be at least 1, got %d", c.Episodes.MaxCount)
	}
	if c.Episodes.FallbackCount < 1 || c.Episodes.FallbackCount > c.Episodes.MaxCount {
		return fmt.Errorf("episodes.fallback_count must be within [1, %d], got %d",
			c.Episodes.MaxCount, c.Episodes.FallbackCount)
	}

	return nil
}

// BaseURL returns the site root with scheme.
func (c *Config) BaseURL() string {
	return "https://" + c.Base
}

// ExpandDownloadDir resolves ~ in the download directory path.
func (c *Config) ExpandDownloadDir() (string, error) {
	dir := c.DownloadDir
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		dir = filepath.Join(home, dir[2:])
	}
	return filepath.Abs(dir)
}

// HistoryPath returns the path to the resolution history database.
func HistoryPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "anistream", "history.db"), nil
}
