// Package resolve turns an episode page into a playable stream URL by
// watching a real browser load the page and its embedded players.
package resolve

import (
	"strings"

	"anistream/internal/browser"
	"anistream/internal/media"
)

// Select picks the best stream among captured resources.
//
// Adaptive playlists win over single files, and the earliest observed
// resource is the last resort. Within each tier the first by arrival wins.
func Select(resources []media.CapturedResource, p browser.Patterns) (string, bool) {
	if url, ok := first(resources, p.Manifest); ok {
		return url, true
	}
	if url, ok := first(resources, p.Direct); ok {
		return url, true
	}
	if len(resources) > 0 {
		return resources[0].URL, true
	}
	return "", false
}

func first(resources []media.CapturedResource, pattern string) (string, bool) {
	if pattern == "" {
		return "", false
	}
	for _, r := range resources {
		if strings.Contains(r.URL, pattern) {
			return r.URL, true
		}
	}
	return "", false
}
