// Package rod implements tubechat.Fetcher with a headless Chrome browser,
// for watch pages whose metadata is only present after JavaScript runs.
package rod

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/tubechat"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds navigation and page load.
const DefaultFetchTimeout = 10 * time.Second

// DefaultWaitSelector matches the rendered video title. Fetch waits for it
// before reading the page so client-rendered metadata is present.
const DefaultWaitSelector = "#title h1 yt-formatted-string, h1.title yt-formatted-string, h1.ytd-video-primary-info-renderer"

// DefaultWaitTimeout is how long Fetch waits for the wait selector. A page
// that never renders it is returned as is.
const DefaultWaitTimeout = 10 * time.Second

// DefaultMaxPages is the number of pages served before the browser is
// relaunched. Chrome memory keeps growing across pages even when each page
// is closed.
const DefaultMaxPages = 75

// Ensure Fetcher implements tubechat.Fetcher at compile time.
var _ tubechat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	timeout      time.Duration
	waitSelector string
	waitTimeout  time.Duration
	maxPages     int

	mu       sync.Mutex
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int
	closed   bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout bounds navigation and page load.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithWaitSelector sets the CSS selector Fetch waits for and how long it
// waits. An empty selector disables waiting.
func WithWaitSelector(selector string, timeout time.Duration) Option {
	return func(f *Fetcher) {
		f.waitSelector = selector
		f.waitTimeout = timeout
	}
}

// WithMaxPages sets the number of pages served before the browser is
// relaunched.
func WithMaxPages(n int) Option {
	return func(f *Fetcher) {
		f.maxPages = n
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:      DefaultFetchTimeout,
		waitSelector: DefaultWaitSelector,
		waitTimeout:  DefaultWaitTimeout,
		maxPages:     DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(f)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	f.browser, f.launcher = browser, l
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, err := f.acquire()
	if err != nil {
		return "", err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Timeout(f.timeout).Navigate(url); err != nil {
		return "", fetchError(ctx, url, err)
	}
	if err := page.Timeout(f.timeout).WaitLoad(); err != nil {
		return "", fetchError(ctx, url, err)
	}

	if f.waitSelector != "" {
		// A missing element is not fatal: head metadata is still usable.
		_, _ = page.Timeout(f.waitTimeout).Element(f.waitSelector)
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}

	return page.HTML()
}

// acquire returns the current browser, relaunching it once it has served
// maxPages pages.
func (f *Fetcher) acquire() (*rod.Browser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, tubechat.Errorf(tubechat.EINVALID, "fetcher closed")
	}

	if f.maxPages > 0 && f.pages >= f.maxPages {
		browser, l, err := launch()
		if err == nil {
			_ = f.browser.Close()
			f.launcher.Kill()
			f.browser, f.launcher = browser, l
			f.pages = 0
		}
	}

	f.pages++
	return f.browser, nil
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.launcher == nil {
		return 0
	}
	return f.launcher.PID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("mute-audio").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, tubechat.Errorf(tubechat.EUNAVAILABLE, "launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, tubechat.Errorf(tubechat.EUNAVAILABLE, "connecting to browser: %w", err)
	}
	return browser, l, nil
}

func fetchError(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return tubechat.Errorf(tubechat.EUNAVAILABLE, "timed out loading %s: %w", url, err)
	}
	return fmt.Errorf("loading %s: %w", url, err)
}
