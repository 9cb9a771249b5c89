package player

import (
	"context"

	"anistream/internal/media"
)

// MPV implements the Player interface for mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool { return available("mpv") }

// Play launches mpv with the referer of the page the stream was captured from.
func (m *MPV) Play(ctx context.Context, stream media.Stream, title string) error {
	if !stream.Direct() {
		return ErrNotPlayable
	}
	return run(ctx, "mpv", mpvArgs(stream, title, ""))
}

// mpvArgs builds mpv-style arguments. prefix is prepended to every option
// for frontends that forward mpv options, e.g. "mpv-" for iina.
func mpvArgs(stream media.Stream, title, prefix string) []string {
	args := []string{
		stream.URL,
		"--" + prefix + "force-media-title=" + title,
	}
	if stream.Referer != "" {
		args = append(args, "--"+prefix+"referrer="+stream.Referer)
	}
	if prefix == "" {
		args = append(args, "--really-quiet")
	}
	return args
}
