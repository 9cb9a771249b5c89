package browser

import (
	"context"
	"slices"
	"strings"
	"sync"

	"anistream/internal/media"
)

// Patterns are the URL substrings that identify streamable media on the site.
type Patterns struct {
	// Media lists substrings of which any marks a response as media-like.
	Media []string
	// Manifest identifies adaptive playlists.
	Manifest string
	// Direct identifies single-file video.
	Direct string
}

// DefaultPatterns returns the substrings used by the site's players.
func DefaultPatterns() Patterns {
	return Patterns{
		Media: []string{
			".m3u8",
			".mp4",
			"master.m3u8",
			"playlist.m3u8",
			"/video/",
			"stream",
		},
		Manifest: ".m3u8",
		Direct:   ".mp4",
	}
}

// MatchesMedia reports whether url contains any media substring.
func (p Patterns) MatchesMedia(url string) bool {
	return slices.ContainsFunc(p.Media, func(sub string) bool {
		return strings.Contains(url, sub)
	})
}

// Observer records the media-like responses of one page in arrival order.
// The log is append-only: entries are never removed, reordered or merged.
type Observer struct {
	patterns Patterns
	cancel   context.CancelFunc

	mu        sync.Mutex
	resources []media.CapturedResource
}

// Observe starts recording responses of page. Recording lasts until Stop is
// called, ctx is done or the page is closed.
func Observe(ctx context.Context, page Page, patterns Patterns) *Observer {
	ctx, cancel := context.WithCancel(ctx)
	o := &Observer{patterns: patterns, cancel: cancel}
	page.OnResponse(ctx, o.record)
	return o
}

func (o *Observer) record(url string) {
	if !o.patterns.MatchesMedia(url) {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resources = append(o.resources, media.CapturedResource{
		URL: url,
		Seq: len(o.resources),
	})
}

// Resources returns a snapshot of everything recorded so far.
func (o *Observer) Resources() []media.CapturedResource {
	o.mu.Lock()
	defer o.mu.Unlock()
	return slices.Clone(o.resources)
}

// Stop ends recording.
func (o *Observer) Stop() {
	o.cancel()
}
