package provider

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"anistream/internal/httputil"
	"anistream/internal/media"
)

const (
	maxResults        = 100
	maxDescriptionLen = 200
)

var backgroundRe = regexp.MustCompile(`url\(['"]?([^'")]+)['"]?\)`)

// parseSearchResults extracts series cards from a search or listing page.
// Cards without a recognizable slug or title are skipped.
func parseSearchResults(doc *goquery.Document) []media.SearchResult {
	var results []media.SearchResult

	doc.Find(".anime-card").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		link := s.Find(`a[href*="/watch/"]`).First().AttrOr("href", "")
		if link == "" {
			link = s.Find(`a[href*="/anime/"]`).First().AttrOr("href", "")
		}
		slug := ExtractSlug(link)
		if slug == "" || httputil.ValidateSlug(slug) != nil {
			return true
		}

		// The card carries the title twice; the non-Japanese variant is
		// hidden when the page language is jp.
		heading := s.Find("h3")
		title := strings.TrimSpace(heading.Find(`[class*="body:hidden"]`).Text())
		if title == "" {
			title = strings.TrimSpace(heading.Text())
		}
		if title == "" {
			return true
		}

		results = append(results, media.SearchResult{
			Slug:        slug,
			Title:       title,
			Poster:      s.Find("img").AttrOr("src", ""),
			Rating:      strings.TrimSpace(s.Find(".text-yellow-400").Parent().Text()),
			Description: truncate(strings.TrimSpace(s.Find("p.text-muted").Text()), maxDescriptionLen),
		})
		return len(results) < maxResults
	})

	return results
}

// parseSeries extracts the static metadata of a series page. The episode
// catalog is built separately.
func parseSeries(doc *goquery.Document, slug string) *media.Series {
	series := &media.Series{Slug: slug}

	series.Title = strings.TrimSpace(doc.Find("h1 .anime").First().Text())
	if series.Title == "" {
		series.Title = TitleFromSlug(slug)
	}

	series.Poster = doc.Find(".anime-main-image").First().AttrOr("src", "")
	style := doc.Find(`div[style*="background"]`).First().AttrOr("style", "")
	if m := backgroundRe.FindStringSubmatch(style); m != nil {
		series.Background = m[1]
	}
	if series.Background == "" {
		series.Background = series.Poster
	}

	series.Description = strings.TrimSpace(doc.Find(`section[aria-label="Anime Overview"] p`).First().Text())

	doc.Find(`a[href*="/genre/"]`).Each(func(_ int, s *goquery.Selection) {
		if genre := strings.TrimSpace(s.Text()); genre != "" {
			series.Genres = append(series.Genres, genre)
		}
	})

	series.Rating = strings.TrimSpace(doc.Find(".text-yellow-400").First().Parent().Text())

	return series
}

// ExtractSlug extracts the series slug from a watch or series link.
// "/watch/frieren-episode-3/" and "/anime/frieren/" both yield "frieren".
func ExtractSlug(link string) string {
	if _, rest, ok := strings.Cut(link, "/watch/"); ok {
		slug, _, _ := strings.Cut(rest, "-episode-")
		return strings.TrimRight(slug, "/")
	}
	if _, rest, ok := strings.Cut(link, "/anime/"); ok {
		return strings.TrimRight(rest, "/")
	}
	return ""
}

// TitleFromSlug turns a slug into a readable title.
func TitleFromSlug(slug string) string {
	return strings.ReplaceAll(slug, "-", " ")
}

// FormatDisplayTitle formats a search result for display in fzf.
func FormatDisplayTitle(r media.SearchResult) string {
	if r.Rating != "" {
		return fmt.Sprintf("%s [%s]", r.Title, r.Rating)
	}
	return r.Title
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
