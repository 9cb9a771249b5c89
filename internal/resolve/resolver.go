package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"anistream/internal/browser"
	"anistream/internal/logging"
	"anistream/internal/media"
)

// ErrNoCandidate means the page loaded but no media-like response was seen.
var ErrNoCandidate = errors.New("no media URL found")

// Pages hands out isolated browser pages.
type Pages interface {
	NewPage(ctx context.Context) (browser.Page, error)
}

// Result describes one resolution attempt.
type Result struct {
	ID        string
	PageURL   string
	StreamURL string // empty unless a candidate was selected
	Resources []media.CapturedResource
	Frames    []browser.FrameOutcome
	Took      time.Duration
}

// Resolver runs the page-to-stream pipeline: open an isolated page, record
// its responses, walk the page and its iframes, then pick one candidate.
type Resolver struct {
	pages    Pages
	walker   *browser.Walker
	patterns browser.Patterns
	logger   *zap.Logger
}

// NewResolver creates a resolver drawing pages from pages.
func NewResolver(pages Pages, walker *browser.Walker, patterns browser.Patterns, logger *zap.Logger) *Resolver {
	return &Resolver{
		pages:    pages,
		walker:   walker,
		patterns: patterns,
		logger:   logging.OrNop(logger).Named("resolve"),
	}
}

// Resolve finds the best-guess media URL of pageURL.
//
// The returned Result is never nil. Errors are browser.ErrLaunch when no
// browser could be started, browser.ErrNavigation when the page itself did not
// load, and ErrNoCandidate when nothing playable was observed. The page is
// closed on every path.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (*Result, error) {
	res := &Result{ID: uuid.NewString(), PageURL: pageURL}
	log := r.logger.With(zap.String("resolution", res.ID), zap.String("page", pageURL))
	started := time.Now()
	defer func() { res.Took = time.Since(started) }()

	page, err := r.pages.NewPage(ctx)
	if err != nil {
		log.Error("no browser page", zap.Error(err))
		return res, err
	}
	defer func() {
		if err := page.Close(); err != nil {
			log.Warn("closing page", zap.Error(err))
		}
	}()

	obs := browser.Observe(ctx, page, r.patterns)
	frames, walkErr := r.walker.Walk(ctx, page, pageURL)
	obs.Stop()

	res.Frames = frames
	res.Resources = obs.Resources()
	log.Debug("walk finished",
		zap.Int("frames", len(frames)),
		zap.Int("captured", len(res.Resources)))

	if walkErr != nil {
		log.Warn("page walk failed", zap.Error(walkErr))
		return res, walkErr
	}

	url, ok := Select(res.Resources, r.patterns)
	if !ok {
		log.Info("no media URL found")
		return res, ErrNoCandidate
	}
	res.StreamURL = url
	log.Info("stream resolved", zap.String("stream", url))
	return res, nil
}
