package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"anistream/internal/httputil"
	"anistream/internal/logging"
)

// ErrNavigation wraps a failed or timed-out top-level navigation.
var ErrNavigation = errors.New("page navigation failed")

// Timeouts bound each step of a walk.
type Timeouts struct {
	TopLevel    time.Duration // top-level navigation until network settles
	Settle      time.Duration // quiet period after the top-level load
	Frame       time.Duration // navigation into one embedded document
	FrameSettle time.Duration // quiet period after each embedded document
}

// DefaultTimeouts returns the timeouts tuned for the site's players.
func DefaultTimeouts() Timeouts {
	return Timeouts{
		TopLevel:    30 * time.Second,
		Settle:      3 * time.Second,
		Frame:       20 * time.Second,
		FrameSettle: 2 * time.Second,
	}
}

// FrameOutcome is the result of visiting one embedded document.
type FrameOutcome struct {
	URL string
	Err error
}

// OK reports whether the visit succeeded.
func (o FrameOutcome) OK() bool {
	return o.Err == nil
}

// Walker loads a page and then every iframe it embeds, one after another, in
// the same page so a single Observer sees all of the players' requests.
type Walker struct {
	timeouts Timeouts
	logger   *zap.Logger
}

// NewWalker creates a walker.
func NewWalker(timeouts Timeouts, logger *zap.Logger) *Walker {
	return &Walker{
		timeouts: timeouts,
		logger:   logging.OrNop(logger).Named("walker"),
	}
}

// Walk navigates page to topURL, waits for deferred scripts, snapshots the
// iframes present and visits each in discovery order.
//
// Only the top-level navigation is fatal. A failing iframe is logged, recorded
// in its outcome and skipped.
func (w *Walker) Walk(ctx context.Context, page Page, topURL string) ([]FrameOutcome, error) {
	w.logger.Debug("loading page", zap.String("url", topURL))
	if err := page.Navigate(ctx, topURL, w.timeouts.TopLevel); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNavigation, err)
	}
	if err := pause(ctx, w.timeouts.Settle); err != nil {
		return nil, err
	}

	frames := w.discover(ctx, page)
	w.logger.Debug("discovered iframes", zap.Int("count", len(frames)))

	outcomes := make([]FrameOutcome, 0, len(frames))
	for i, src := range frames {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		outcome := FrameOutcome{URL: src}
		if err := page.Navigate(ctx, src, w.timeouts.Frame); err != nil {
			outcome.Err = err
			w.logger.Warn("iframe visit failed",
				zap.Int("index", i+1),
				zap.String("url", src),
				zap.Error(err))
		} else {
			w.logger.Debug("iframe visited", zap.Int("index", i+1), zap.String("url", src))
			if err := pause(ctx, w.timeouts.FrameSettle); err != nil {
				outcomes = append(outcomes, outcome)
				return outcomes, err
			}
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}

// discover snapshots the web-addressable iframes of the current document.
// Navigating away invalidates the elements, so addresses are copied first.
func (w *Walker) discover(ctx context.Context, page Page) []string {
	sources, err := page.FrameSources(ctx)
	if err != nil {
		w.logger.Warn("listing iframes failed", zap.Error(err))
		return nil
	}

	frames := make([]string, 0, len(sources))
	for _, src := range sources {
		if httputil.IsWebURL(src) {
			frames = append(frames, src)
		}
	}
	return frames
}

// pause sleeps for d unless ctx ends first.
func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
