package player

import (
	"context"

	"anistream/internal/media"
)

// VLC implements the Player interface for VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool { return available("vlc") }

// Play launches VLC.
func (v *VLC) Play(ctx context.Context, stream media.Stream, title string) error {
	if !stream.Direct() {
		return ErrNotPlayable
	}
	return run(ctx, "vlc", vlcArgs(stream, title))
}

func vlcArgs(stream media.Stream, title string) []string {
	args := []string{
		stream.URL,
		"--meta-title", title,
		"--play-and-exit",
	}
	if stream.Referer != "" {
		args = append(args, "--http-referrer", stream.Referer)
	}
	return args
}
