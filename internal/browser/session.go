// Package browser drives a headless Chromium to observe the network traffic
// of episode pages. It owns the shared browser process, hands out isolated
// page contexts, records media-like responses and walks embedded players.
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"anistream/internal/logging"
)

var (
	// ErrLaunch wraps failures to start or connect to the browser process.
	ErrLaunch = errors.New("browser launch failed")
	// ErrClosed is returned by Acquire after Shutdown.
	ErrClosed = errors.New("browser session manager is shut down")
)

// Launcher starts a browser process.
type Launcher interface {
	Launch(ctx context.Context) (Browser, error)
}

// Browser is a running browser process.
type Browser interface {
	// NewPage opens an isolated browsing context with a single page.
	NewPage(ctx context.Context) (Page, error)
	Close() error
}

// Page is one isolated browsing context.
type Page interface {
	// Navigate loads url in place and blocks until network activity settles,
	// failing when that takes longer than timeout.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// FrameSources returns the address of every iframe in the current document.
	FrameSources(ctx context.Context) ([]string, error)
	// OnResponse calls fn with the URL of every network response received
	// until ctx is done or the page is closed. It does not block.
	OnResponse(ctx context.Context, fn func(url string))
	Close() error
}

// SessionManager owns the single shared browser process.
// The process is started lazily on first use and at most one launch is ever
// in flight; concurrent first callers wait for the same launch.
type SessionManager struct {
	launcher Launcher
	logger   *zap.Logger

	launch singleflight.Group

	mu      sync.Mutex
	browser Browser
	closed  bool
}

// NewSessionManager creates a manager that starts browsers with l.
func NewSessionManager(l Launcher, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		launcher: l,
		logger:   logging.OrNop(logger).Named("session"),
	}
}

// Acquire returns the shared browser, launching it if needed.
// A failed launch is returned to every waiting caller and is not retried;
// the next call makes a fresh attempt.
func (m *SessionManager) Acquire(ctx context.Context) (Browser, error) {
	if b, err := m.current(); b != nil || err != nil {
		return b, err
	}

	v, err, shared := m.launch.Do("browser", func() (any, error) {
		if b, err := m.current(); b != nil || err != nil {
			return b, err
		}

		m.logger.Info("launching browser")
		started := time.Now()
		// The process outlives the request that happened to start it.
		b, err := m.launcher.Launch(context.WithoutCancel(ctx))
		if err != nil {
			m.logger.Error("browser launch failed", zap.Error(err))
			return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.closed {
			_ = b.Close()
			return nil, ErrClosed
		}
		m.browser = b
		m.logger.Info("browser launched", zap.Duration("took", time.Since(started)))
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		m.logger.Debug("joined in-flight browser launch")
	}
	return v.(Browser), nil
}

func (m *SessionManager) current() (Browser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	return m.browser, nil
}

// NewPage acquires the shared browser and opens an isolated page on it.
// The caller owns the page and must close it.
func (m *SessionManager) NewPage(ctx context.Context) (Page, error) {
	b, err := m.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	page, err := b.NewPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	return page, nil
}

// Alive reports whether a browser process is currently held.
func (m *SessionManager) Alive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.browser != nil
}

// Shutdown closes the browser if one is running. It is safe to call when no
// browser was ever started, and more than once.
func (m *SessionManager) Shutdown() error {
	m.mu.Lock()
	b := m.browser
	m.browser = nil
	m.closed = true
	m.mu.Unlock()

	if b == nil {
		return nil
	}
	m.logger.Info("closing browser")
	if err := b.Close(); err != nil {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}
