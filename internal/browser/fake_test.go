package browser

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

type navigation struct {
	url     string
	timeout time.Duration
}

type listener struct {
	ctx context.Context
	fn  func(string)
}

// fakePage replays scripted responses synchronously during Navigate.
type fakePage struct {
	mu        sync.Mutex
	responses map[string][]string
	failures  map[string]error
	frames    []string
	framesErr error
	visits    []navigation
	listeners []listener
	closed    bool
}

func newFakePage() *fakePage {
	return &fakePage{
		responses: make(map[string][]string),
		failures:  make(map[string]error),
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visits = append(p.visits, navigation{url: url, timeout: timeout})
	if err := p.failures[url]; err != nil {
		return err
	}
	for _, resp := range p.responses[url] {
		for _, l := range p.listeners {
			if l.ctx.Err() == nil {
				l.fn(resp)
			}
		}
	}
	return nil
}

func (p *fakePage) FrameSources(ctx context.Context) ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames, p.framesErr
}

func (p *fakePage) OnResponse(ctx context.Context, fn func(string)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listeners = append(p.listeners, listener{ctx: ctx, fn: fn})
}

func (p *fakePage) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *fakePage) visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	urls := make([]string, len(p.visits))
	for i, v := range p.visits {
		urls[i] = v.url
	}
	return urls
}

type fakeBrowser struct {
	page   Page
	closed atomic.Bool
}

func (b *fakeBrowser) NewPage(ctx context.Context) (Page, error) {
	if b.page == nil {
		return nil, errors.New("no page scripted")
	}
	return b.page, nil
}

func (b *fakeBrowser) Close() error {
	b.closed.Store(true)
	return nil
}

// fakeLauncher counts launches and can hold them until release is closed.
type fakeLauncher struct {
	launches atomic.Int32
	release  chan struct{}
	err      error
	browser  *fakeBrowser
}

func (l *fakeLauncher) Launch(ctx context.Context) (Browser, error) {
	l.launches.Add(1)
	if l.release != nil {
		<-l.release
	}
	if l.err != nil {
		return nil, l.err
	}
	if l.browser == nil {
		l.browser = &fakeBrowser{}
	}
	return l.browser, nil
}
