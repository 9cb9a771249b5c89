// Package media defines shared types for the anistream application.
package media

import (
	"fmt"
	"time"
)

// SearchResult represents a single series card from a search or listing page.
type SearchResult struct {
	Slug        string // URL-safe series identifier, e.g. "frieren"
	Title       string // Display title
	Poster      string // Poster image URL
	Description string // Short synopsis, truncated
	Rating      string // Site rating as displayed
	URL         string // Full URL to the series page
}

// CapturedResource is one media-like network response seen while a page was open.
type CapturedResource struct {
	URL string
	Seq int // arrival ordinal, starting at 0
}

// EpisodeLink is an entry of a series' episode grid.
type EpisodeLink struct {
	Number int
	URL    string
}

// CountSource names the evidence an episode count was taken from.
type CountSource int

const (
	SignalNone CountSource = iota
	SignalGrid
	SignalMetadataField
)

func (s CountSource) String() string {
	switch s {
	case SignalGrid:
		return "grid"
	case SignalMetadataField:
		return "metadata"
	default:
		return "fallback"
	}
}

// EpisodeCountSignal is the episode count chosen for a series and where it came from.
type EpisodeCountSignal struct {
	Source CountSource
	Count  int
}

// EpisodeRecord is one synthesized episode of a series catalog.
type EpisodeRecord struct {
	ID         string    // "an1me:{slug}:{season}:{number}"
	SeriesSlug string
	Season     int
	Number     int
	Title      string
	Released   time.Time // generation time, not a real air date
	Thumbnail  string
}

// EpisodeID formats the catalog identifier of an episode.
func EpisodeID(slug string, season, number int) string {
	return fmt.Sprintf("an1me:%s:%d:%d", slug, season, number)
}

// Series holds the static metadata of a series page plus its episode catalog.
type Series struct {
	Slug        string
	Title       string
	Poster      string
	Background  string
	Description string
	Genres      []string
	Rating      string
	PageURL     string
	Signal      EpisodeCountSignal
	Episodes    []EpisodeRecord
}

// Stream is one playable option for an episode.
// Exactly one of URL and ExternalURL is set.
type Stream struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`         // m3u8 or direct video URL
	ExternalURL string `json:"externalUrl,omitempty"` // page to open in a browser
	Referer     string `json:"referer,omitempty"`     // page the stream was captured from
	BingeGroup  string `json:"bingeGroup,omitempty"`
}

// Direct reports whether the stream is playable without a browser.
func (s Stream) Direct() bool {
	return s.URL != ""
}

// HistoryEntry records one stream resolution.
type HistoryEntry struct {
	ID         string // resolution UUID
	Slug       string
	Episode    int
	PageURL    string
	StreamURL  string // empty when nothing was resolved
	ResolvedAt time.Time
}
