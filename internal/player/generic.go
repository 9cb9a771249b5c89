package player

import (
	"context"

	"anistream/internal/media"
)

// Generic implements the Player interface for mpv frontends like iina and
// celluloid, which forward "--mpv-" prefixed options to mpv.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool { return available(g.name) }

// Play launches the frontend.
func (g *Generic) Play(ctx context.Context, stream media.Stream, title string) error {
	if !stream.Direct() {
		return ErrNotPlayable
	}
	return run(ctx, g.name, mpvArgs(stream, title, "mpv-"))
}
