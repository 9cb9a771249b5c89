package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodLauncher starts a headless Chromium through go-rod.
// The launch flags are fixed for containerized execution.
type RodLauncher struct {
	// Bin is the browser executable; empty lets rod find or download one.
	Bin string
}

// Launch starts the browser and connects to its DevTools endpoint.
func (r RodLauncher) Launch(ctx context.Context) (Browser, error) {
	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true).
		Set("disable-setuid-sandbox").
		Set("disable-dev-shm-usage").
		Set("disable-accelerated-2d-canvas").
		Set("disable-gpu")
	if r.Bin != "" {
		l = l.Bin(r.Bin)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch chrome: %w", err)
	}

	b := rod.New().ControlURL(controlURL)
	if err := b.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}

	return &rodBrowser{browser: b, launcher: l}, nil
}

type rodBrowser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
}

func (b *rodBrowser) NewPage(ctx context.Context) (Page, error) {
	incognito, err := b.browser.Context(ctx).Incognito()
	if err != nil {
		return nil, fmt.Errorf("incognito context: %w", err)
	}

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = disposeContext(incognito)
		return nil, fmt.Errorf("create page: %w", err)
	}

	return &rodPage{page: page, incognito: incognito}, nil
}

func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	b.launcher.Cleanup()
	return err
}

type rodPage struct {
	page      *rod.Page
	incognito *rod.Browser
}

// Navigate loads url in the main frame and waits until that load is
// network-almost-idle. Lifecycle events from child frames, and the replay of
// the previous document's events when they are enabled, do not end the wait.
func (p *rodPage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	page := p.page.Context(navCtx)
	_ = page.StopLoading()

	if err := (proto.PageSetLifecycleEventsEnabled{Enabled: true}).Call(page); err != nil {
		return fmt.Errorf("enabling lifecycle events: %w", err)
	}
	defer func() { _ = proto.PageSetLifecycleEventsEnabled{Enabled: false}.Call(p.page) }()

	// Events queue from here on; the callback only runs inside wait(),
	// after loader is known.
	var loader proto.NetworkLoaderID
	wait := page.EachEvent(func(e *proto.PageLifecycleEvent) bool {
		return settled(e, page.FrameID, loader)
	})

	res, err := proto.PageNavigate{URL: url}.Call(page)
	if err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if res.ErrorText != "" {
		return fmt.Errorf("navigating to %s: %s", url, res.ErrorText)
	}
	if res.LoaderID == "" {
		// Same-document navigation, nothing new to load.
		return nil
	}

	loader = res.LoaderID
	wait()

	if err := navCtx.Err(); err != nil {
		return fmt.Errorf("waiting for %s to settle: %w", url, err)
	}
	return nil
}

// settled reports whether e marks the main frame's load by loader as
// network-almost-idle.
func settled(e *proto.PageLifecycleEvent, main proto.PageFrameID, loader proto.NetworkLoaderID) bool {
	return e.FrameID == main &&
		e.LoaderID == loader &&
		e.Name == proto.PageLifecycleEventNameNetworkAlmostIdle
}

func (p *rodPage) FrameSources(ctx context.Context) ([]string, error) {
	frames, err := p.page.Context(ctx).Elements("iframe")
	if err != nil {
		return nil, fmt.Errorf("listing iframes: %w", err)
	}

	sources := make([]string, 0, len(frames))
	for _, frame := range frames {
		// The src property is resolved against the document URL, unlike the attribute.
		src, err := frame.Property("src")
		if err != nil {
			continue
		}
		sources = append(sources, src.Str())
	}
	return sources, nil
}

func (p *rodPage) OnResponse(ctx context.Context, fn func(url string)) {
	wait := p.page.Context(ctx).EachEvent(func(ev *proto.NetworkResponseReceived) {
		fn(ev.Response.URL)
	})
	go wait()
}

func (p *rodPage) Close() error {
	err := p.page.Close()
	if derr := disposeContext(p.incognito); err == nil {
		err = derr
	}
	return err
}

func disposeContext(b *rod.Browser) error {
	return proto.TargetDisposeBrowserContext{BrowserContextID: b.BrowserContextID}.Call(b)
}
