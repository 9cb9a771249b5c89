// Package provider defines the interface for series sources and the An1me
// implementation.
package provider

import (
	"context"

	"anistream/internal/media"
)

// Provider is the interface that series sources must implement.
type Provider interface {
	// Search returns series cards matching a query. A page that cannot be
	// fetched yields no cards; only a blank query or a done ctx is an error.
	Search(ctx context.Context, query string) ([]media.SearchResult, error)

	// Latest returns the series cards listed on the home page, or none when
	// the page cannot be fetched.
	Latest(ctx context.Context) ([]media.SearchResult, error)

	// Series returns the metadata and synthesized episode catalog of a series.
	Series(ctx context.Context, slug string) (*media.Series, error)

	// EpisodeURL returns the watch page of an episode.
	EpisodeURL(slug string, episode int) string
}
