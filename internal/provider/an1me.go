package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"anistream/internal/catalog"
	"anistream/internal/httputil"
	"anistream/internal/logging"
	"anistream/internal/media"
)

// An1me implements the Provider interface for an1me.to.
type An1me struct {
	base    string // e.g., "https://an1me.to"
	client  *httputil.Client
	builder *catalog.Builder
	logger  *zap.Logger
}

// NewAn1me creates a provider rooted at baseURL.
func NewAn1me(baseURL string, client *httputil.Client, builder *catalog.Builder, logger *zap.Logger) *An1me {
	return &An1me{
		base:    strings.TrimRight(baseURL, "/"),
		client:  client,
		builder: builder,
		logger:  logging.OrNop(logger).Named("an1me"),
	}
}

// EpisodeURL returns {base}/watch/{slug}-episode-{n}/.
func (a *An1me) EpisodeURL(slug string, episode int) string {
	return fmt.Sprintf("%s/watch/%s-episode-%d/", a.base, slug, episode)
}

// SeriesURL returns {base}/anime/{slug}/.
func (a *An1me) SeriesURL(slug string) string {
	return fmt.Sprintf("%s/anime/%s/", a.base, slug)
}

// Search returns the series cards of the site search page. An unreachable or
// empty search page yields no results rather than an error, the same way an
// unreachable series page yields a placeholder.
func (a *An1me) Search(ctx context.Context, query string) ([]media.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	doc, err := a.fetchDocument(ctx, httputil.SearchURL(a.base, query))
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("searching for %q: %w", query, ctx.Err())
		}
		a.logger.Warn("search page unavailable", zap.String("query", query), zap.Error(err))
		return nil, nil
	}

	results := a.withURLs(parseSearchResults(doc))
	a.logger.Debug("search finished", zap.String("query", query), zap.Int("results", len(results)))
	return results, nil
}

// Latest returns the series cards of the home page, or none when the home
// page is unreachable.
func (a *An1me) Latest(ctx context.Context) ([]media.SearchResult, error) {
	doc, err := a.fetchDocument(ctx, a.base+"/")
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("getting latest: %w", ctx.Err())
		}
		a.logger.Warn("home page unavailable", zap.Error(err))
		return nil, nil
	}
	return a.withURLs(parseSearchResults(doc)), nil
}

// Series fetches the series page and builds its episode catalog. When the
// page cannot be fetched a placeholder with a slug-derived title and the
// fallback catalog is returned instead of an error.
func (a *An1me) Series(ctx context.Context, slug string) (*media.Series, error) {
	slug = strings.TrimRight(slug, "/")
	if err := httputil.ValidateSlug(slug); err != nil {
		return nil, fmt.Errorf("invalid series slug: %w", err)
	}

	pageURL := a.SeriesURL(slug)
	doc, err := a.fetchDocument(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("getting series %s: %w", slug, ctx.Err())
		}
		a.logger.Warn("series page unavailable, using placeholder",
			zap.String("slug", slug),
			zap.Error(err))

		series := &media.Series{Slug: slug, Title: TitleFromSlug(slug), PageURL: pageURL}
		series.Signal, series.Episodes = a.builder.Build(slug, nil, 0, false, "")
		return series, nil
	}

	series := parseSeries(doc, slug)
	series.PageURL = pageURL

	field, hasField := catalog.ParseEpisodeField(doc)
	series.Signal, series.Episodes = a.builder.Build(slug, catalog.ParseEpisodeLinks(doc), field, hasField, series.Poster)

	a.logger.Debug("series catalog built",
		zap.String("slug", slug),
		zap.Stringer("source", series.Signal.Source),
		zap.Int("count", series.Signal.Count),
		zap.Int("episodes", len(series.Episodes)))

	return series, nil
}

func (a *An1me) withURLs(results []media.SearchResult) []media.SearchResult {
	for i := range results {
		results[i].URL = a.SeriesURL(results[i].Slug)
	}
	return results
}

// fetchDocument fetches a URL and parses it into a goquery Document.
func (a *An1me) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, httputil.FetchTimeout)
	defer cancel()

	resp, err := a.client.Get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return doc, nil
}
