package catalog

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"anistream/internal/media"
)

// ParseEpisodeLinks reads the episode grid of a series page. Anchors without
// an address or a numeric data-search marker are skipped.
func ParseEpisodeLinks(doc *goquery.Document) []media.EpisodeLink {
	var links []media.EpisodeLink

	doc.Find(`#episodeGrid a[href*="/watch/"]`).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		n, ok := leadingInt(s.AttrOr("data-search", ""))
		if !ok {
			return
		}
		links = append(links, media.EpisodeLink{Number: n, URL: href})
	})

	return links
}

// ParseEpisodeField reads the "Episodes" entry of the series details list.
// "N/A" and values without a leading number count as absent. When the label
// appears more than once the last one wins.
func ParseEpisodeField(doc *goquery.Document) (int, bool) {
	var (
		count int
		found bool
	)

	doc.Find("dl div").Each(func(_ int, s *goquery.Selection) {
		label := strings.TrimSpace(s.Find("dt").Text())
		value := strings.TrimSpace(s.Find("dd").Text())
		if label != "Episodes" || value == "" || value == "N/A" {
			return
		}
		if n, ok := leadingInt(value); ok {
			count, found = n, true
		}
	})

	return count, found
}

// leadingInt parses the integer prefix of s, e.g. "12 eps" -> 12.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}
