package cmd

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"anistream/internal/browser"
	"anistream/internal/catalog"
	"anistream/internal/config"
	"anistream/internal/history"
	"anistream/internal/httputil"
	"anistream/internal/provider"
	"anistream/internal/resolve"
)

// app wires the site client, the shared browser session and the history log.
// The browser is launched on the first resolution, not here.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	site     *provider.An1me
	sessions *browser.SessionManager
	resolver *resolve.Resolver

	historyOnce sync.Once
	history     *history.Store
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	sessions := browser.NewSessionManager(browser.RodLauncher{Bin: cfg.BrowserBin}, logger)
	return &app{
		cfg:    cfg,
		logger: logger,
		site: provider.NewAn1me(
			cfg.BaseURL(),
			httputil.NewClient(cfg.RequestsPerSecond),
			catalog.New(cfg.Episodes),
			logger,
		),
		sessions: sessions,
		resolver: resolve.NewResolver(
			sessions,
			browser.NewWalker(browser.DefaultTimeouts(), logger),
			browser.DefaultPatterns(),
			logger,
		),
	}
}

// resolveEpisode resolves one episode and appends the outcome to the history log.
func (a *app) resolveEpisode(ctx context.Context, slug string, episode int) resolve.Resolution {
	req := resolve.Request{
		Slug:    slug,
		Episode: episode,
		PageURL: a.site.EpisodeURL(slug, episode),
	}
	res := resolve.Streams(ctx, a.resolver, req, a.logger)
	a.record(ctx, res)
	return res
}

func (a *app) record(ctx context.Context, res resolve.Resolution) {
	store := a.historyStore(ctx)
	if store == nil {
		return
	}
	entry := historyEntry(res)
	if _, err := store.Record(ctx, entry); err != nil {
		a.logger.Warn("saving history failed", zap.Error(err))
	}
}

// historyStore opens the history log on first use. It returns nil when
// history is disabled or the database cannot be opened.
func (a *app) historyStore(ctx context.Context) *history.Store {
	if !a.cfg.History {
		return nil
	}
	a.historyOnce.Do(func() {
		path, err := config.HistoryPath()
		if err == nil {
			a.history, err = history.Open(ctx, path)
		}
		if err != nil {
			a.logger.Warn("history unavailable", zap.Error(err))
		}
	})
	return a.history
}

func (a *app) close() {
	if err := a.sessions.Shutdown(); err != nil {
		a.logger.Warn("closing browser", zap.Error(err))
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.logger.Warn("closing history", zap.Error(err))
		}
	}
}

func episodeTitle(seriesTitle string, episode int) string {
	return fmt.Sprintf("%s E%02d", seriesTitle, episode)
}
