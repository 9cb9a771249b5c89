package cmd

import (
	"encoding/json"
	"io"
	"time"

	"anistream/internal/media"
	"anistream/internal/resolve"
)

type resolutionOutput struct {
	ID      string         `json:"id"`
	Slug    string         `json:"slug"`
	Episode int            `json:"episode"`
	PageURL string         `json:"pageUrl"`
	Streams []media.Stream `json:"streams"`
	Error   string         `json:"error,omitempty"`
}

func newResolutionOutput(res resolve.Resolution) resolutionOutput {
	out := resolutionOutput{
		ID:      res.ID,
		Slug:    res.Slug,
		Episode: res.Episode,
		PageURL: res.PageURL,
		Streams: res.Streams,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

type episodeOutput struct {
	ID        string    `json:"id"`
	Season    int       `json:"season"`
	Episode   int       `json:"episode"`
	Title     string    `json:"title"`
	Released  time.Time `json:"released"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

type seriesOutput struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Poster      string          `json:"poster,omitempty"`
	Background  string          `json:"background,omitempty"`
	Description string          `json:"description,omitempty"`
	Genres      []string        `json:"genres,omitempty"`
	Rating      string          `json:"rating,omitempty"`
	URL         string          `json:"url"`
	CountSource string          `json:"countSource"`
	Count       int             `json:"count"`
	Videos      []episodeOutput `json:"videos"`
}

func newSeriesOutput(s *media.Series) seriesOutput {
	out := seriesOutput{
		ID:          "an1me:" + s.Slug,
		Name:        s.Title,
		Poster:      s.Poster,
		Background:  s.Background,
		Description: s.Description,
		Genres:      s.Genres,
		Rating:      s.Rating,
		URL:         s.PageURL,
		CountSource: s.Signal.Source.String(),
		Count:       s.Signal.Count,
		Videos:      make([]episodeOutput, 0, len(s.Episodes)),
	}
	for _, ep := range s.Episodes {
		out.Videos = append(out.Videos, episodeOutput{
			ID:        ep.ID,
			Season:    ep.Season,
			Episode:   ep.Number,
			Title:     ep.Title,
			Released:  ep.Released,
			Thumbnail: ep.Thumbnail,
		})
	}
	return out
}

type historyOutput struct {
	ID         string    `json:"id"`
	Slug       string    `json:"slug"`
	Episode    int       `json:"episode"`
	PageURL    string    `json:"pageUrl"`
	StreamURL  string    `json:"streamUrl,omitempty"`
	ResolvedAt time.Time `json:"resolvedAt"`
}

func newHistoryOutput(entries []media.HistoryEntry) []historyOutput {
	out := make([]historyOutput, len(entries))
	for i, e := range entries {
		out[i] = historyOutput(e)
	}
	return out
}

func historyEntry(res resolve.Resolution) media.HistoryEntry {
	e := media.HistoryEntry{
		ID:      res.ID,
		Slug:    res.Slug,
		Episode: res.Episode,
		PageURL: res.PageURL,
	}
	if s, ok := res.Direct(); ok {
		e.StreamURL = s.URL
	}
	return e
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
