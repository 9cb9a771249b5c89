package resolve

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"anistream/internal/logging"
	"anistream/internal/media"
)

// PageResolver resolves a page address to a stream.
type PageResolver interface {
	Resolve(ctx context.Context, pageURL string) (*Result, error)
}

// Request identifies one episode to resolve.
type Request struct {
	Slug    string
	Episode int
	PageURL string
}

// Resolution is the packaged outcome of a Request.
type Resolution struct {
	Request
	ID      string
	Streams []media.Stream
	Err     error // why no direct stream was produced, if any
}

// Direct returns the directly playable stream, if one was resolved.
func (r Resolution) Direct() (media.Stream, bool) {
	for _, s := range r.Streams {
		if s.Direct() {
			return s, true
		}
	}
	return media.Stream{}, false
}

// Streams resolves req and packages the result. It never fails: the
// "watch in browser" stream pointing at the episode page is always last,
// preceded by a direct stream when one was found.
func Streams(ctx context.Context, r PageResolver, req Request, logger *zap.Logger) Resolution {
	logger = logging.OrNop(logger)
	title := fmt.Sprintf("Episode %d", req.Episode)
	out := Resolution{Request: req}

	res, err := r.Resolve(ctx, req.PageURL)
	if res != nil {
		out.ID = res.ID
	}
	switch {
	case err != nil:
		out.Err = err
		logger.Warn("falling back to browser link",
			zap.String("slug", req.Slug),
			zap.Int("episode", req.Episode),
			zap.Error(err))
	case res.StreamURL != "":
		out.Streams = append(out.Streams, media.Stream{
			Name:       "An1me.to - Direct Stream",
			Title:      title,
			URL:        res.StreamURL,
			Referer:    req.PageURL,
			BingeGroup: "an1me-" + req.Slug,
		})
	}

	out.Streams = append(out.Streams, media.Stream{
		Name:        "An1me.to - Watch in Browser",
		Title:       title,
		ExternalURL: req.PageURL,
	})
	return out
}
