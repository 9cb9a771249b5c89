package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"anistream/internal/catalog"
	"anistream/internal/config"
	"anistream/internal/httputil"
	"anistream/internal/media"
)

func newTestSite(t *testing.T, routes map[string]string) *An1me {
	t.Helper()
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fixture, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile("testdata/" + fixture)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(data)
	}))
	t.Cleanup(srv.Close)

	client := httputil.NewClientFrom(srv.Client(), 0)
	return NewAn1me(srv.URL, client, catalog.New(config.Default().Episodes), nil)
}

func TestAn1meURLs(t *testing.T) {
	a := NewAn1me("https://an1me.to/", nil, nil, nil)

	if got := a.EpisodeURL("sousou-no-frieren", 3); got != "https://an1me.to/watch/sousou-no-frieren-episode-3/" {
		t.Errorf("EpisodeURL = %q", got)
	}
	if got := a.SeriesURL("sousou-no-frieren"); got != "https://an1me.to/anime/sousou-no-frieren/" {
		t.Errorf("SeriesURL = %q", got)
	}
}

func TestAn1meSearch(t *testing.T) {
	a := newTestSite(t, map[string]string{"/search/": "search_results.html"})

	results, err := a.Search(context.Background(), "frieren")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if want := a.SeriesURL("sousou-no-frieren"); results[0].URL != want {
		t.Errorf("URL = %q, want %q", results[0].URL, want)
	}
}

func TestAn1meSearchNoResults(t *testing.T) {
	a := newTestSite(t, map[string]string{"/search/": "series_bare.html"})

	results, err := a.Search(context.Background(), "nothing")
	if err != nil {
		t.Errorf("Search() on empty result page: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %+v", results)
	}
	if _, err := a.Search(context.Background(), "  "); err == nil {
		t.Error("expected error for blank query")
	}
}

func TestAn1meUnreachableListings(t *testing.T) {
	a := newTestSite(t, nil)

	results, err := a.Search(context.Background(), "frieren")
	if err != nil || len(results) != 0 {
		t.Errorf("Search() on missing page = (%v, %v), want no results and no error", results, err)
	}
	results, err = a.Latest(context.Background())
	if err != nil || len(results) != 0 {
		t.Errorf("Latest() on missing page = (%v, %v), want no results and no error", results, err)
	}
}

func TestAn1meListingsCancelled(t *testing.T) {
	a := newTestSite(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Search(ctx, "frieren"); err == nil {
		t.Error("Search() expected error for cancelled context")
	}
	if _, err := a.Latest(ctx); err == nil {
		t.Error("Latest() expected error for cancelled context")
	}
}

func TestAn1meLatest(t *testing.T) {
	a := newTestSite(t, map[string]string{"/": "search_results.html"})

	results, err := a.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
}

func TestAn1meSeries(t *testing.T) {
	a := newTestSite(t, map[string]string{"/anime/sousou-no-frieren/": "series_page.html"})

	s, err := a.Series(context.Background(), "sousou-no-frieren/")
	if err != nil {
		t.Fatalf("Series() error: %v", err)
	}
	if s.Title != "Sousou no Frieren" {
		t.Errorf("Title = %q", s.Title)
	}
	// Grid {1,2,4} beats the "28" field.
	if s.Signal.Source != media.SignalGrid || s.Signal.Count != 4 {
		t.Errorf("Signal = %+v, want grid/4", s.Signal)
	}
	if len(s.Episodes) != 4 {
		t.Fatalf("expected 4 episodes, got %d", len(s.Episodes))
	}
	if s.Episodes[0].Thumbnail != s.Poster {
		t.Errorf("Thumbnail = %q, want poster %q", s.Episodes[0].Thumbnail, s.Poster)
	}
	if s.PageURL != a.SeriesURL("sousou-no-frieren") {
		t.Errorf("PageURL = %q", s.PageURL)
	}
}

func TestAn1meSeriesPlaceholder(t *testing.T) {
	a := newTestSite(t, nil)

	s, err := a.Series(context.Background(), "kaiju-no-8")
	if err != nil {
		t.Fatalf("Series() error: %v", err)
	}
	if s.Title != "kaiju no 8" {
		t.Errorf("Title = %q, want 'kaiju no 8'", s.Title)
	}
	if s.Signal.Source != media.SignalNone || len(s.Episodes) != 50 {
		t.Errorf("expected fallback catalog of 50, got %v/%d", s.Signal.Source, len(s.Episodes))
	}
}

func TestAn1meSeriesInvalidSlug(t *testing.T) {
	a := newTestSite(t, nil)

	for _, slug := range []string{"", "../etc", "Has Spaces"} {
		if _, err := a.Series(context.Background(), slug); err == nil {
			t.Errorf("Series(%q) expected error", slug)
		}
	}
}

func TestAn1meSeriesCancelled(t *testing.T) {
	a := newTestSite(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := a.Series(ctx, "kaiju-no-8"); err == nil {
		t.Error("expected error for cancelled context")
	}
}
