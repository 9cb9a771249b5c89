// Package player provides a secure interface for launching media players.
// All player invocations use exec.CommandContext with explicit argument
// slices, so stream URLs and titles never pass through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"anistream/internal/media"
)

// ErrNotPlayable is returned for streams that only carry a browser link.
var ErrNotPlayable = errors.New("stream has no direct URL")

// Player is the interface for media player implementations.
type Player interface {
	// Play starts playback of a direct stream and blocks until the player exits.
	Play(ctx context.Context, stream media.Stream, title string) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name, ignoring case.
func New(name string) Player {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{} // Default to mpv
	}
}

func available(bin string) bool {
	_, err := exec.LookPath(bin)
	return err == nil
}

// run starts bin attached to the terminal. A non-zero exit is how most
// players report a user quit, so it is not treated as an error.
func run(ctx context.Context, bin string, args []string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			return nil
		}
		return fmt.Errorf("running %s: %w", bin, err)
	}
	return nil
}
