// Package catalog infers how many episodes a series has and synthesizes its
// episode list. Episodes are never scraped one by one: the site exposes only
// a count, so titles and dates are placeholders.
package catalog

import (
	"fmt"
	"time"

	"anistream/internal/config"
	"anistream/internal/media"
)

// Builder turns episode-count evidence into an episode catalog.
type Builder struct {
	// FallbackCount is used when the page carries no count at all.
	FallbackCount int
	// MaxCount is the largest count considered plausible. Larger counts
	// yield an empty catalog.
	MaxCount int
	// Now stamps the synthesized release dates.
	Now func() time.Time
}

// New creates a builder from the episode thresholds in cfg.
func New(cfg config.Episodes) *Builder {
	return &Builder{
		FallbackCount: cfg.FallbackCount,
		MaxCount:      cfg.MaxCount,
		Now:           time.Now,
	}
}

// Infer picks the episode count. The grid wins because it lists episodes that
// are actually published, which can run ahead of a stale metadata field. The
// highest number is used, not the number of links, so gaps in the grid are
// filled in. A grid holding only episode 0 counts as no signal at all; the
// metadata field is not consulted in that case.
func (b *Builder) Infer(links []media.EpisodeLink, field int, hasField bool) media.EpisodeCountSignal {
	if len(links) > 0 {
		highest := links[0].Number
		for _, l := range links[1:] {
			highest = max(highest, l.Number)
		}
		if highest > 0 {
			return media.EpisodeCountSignal{Source: media.SignalGrid, Count: highest}
		}
		return b.fallback()
	}
	if hasField && field > 0 {
		return media.EpisodeCountSignal{Source: media.SignalMetadataField, Count: field}
	}
	return b.fallback()
}

func (b *Builder) fallback() media.EpisodeCountSignal {
	return media.EpisodeCountSignal{Source: media.SignalNone, Count: b.FallbackCount}
}

// Synthesize produces records 1..count for season 1. A count outside
// [1, MaxCount] produces no records.
func (b *Builder) Synthesize(slug string, count int, poster string) []media.EpisodeRecord {
	if count < 1 || count > b.MaxCount {
		return nil
	}

	released := b.Now().UTC()
	records := make([]media.EpisodeRecord, 0, count)
	for n := 1; n <= count; n++ {
		records = append(records, media.EpisodeRecord{
			ID:         media.EpisodeID(slug, 1, n),
			SeriesSlug: slug,
			Season:     1,
			Number:     n,
			Title:      fmt.Sprintf("Episode %d", n),
			Released:   released,
			Thumbnail:  poster,
		})
	}
	return records
}

// Build infers the count and synthesizes the catalog in one step.
func (b *Builder) Build(slug string, links []media.EpisodeLink, field int, hasField bool, poster string) (media.EpisodeCountSignal, []media.EpisodeRecord) {
	signal := b.Infer(links, field, hasField)
	return signal, b.Synthesize(slug, signal.Count, poster)
}
