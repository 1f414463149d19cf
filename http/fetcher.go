// Package http provides an HTTP-based implementation of tubechat.Fetcher
// for downloading YouTube watch pages without a browser.
package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/tubechat"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies as a desktop browser so YouTube serves the
// full watch page markup.
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodySize bounds how much of a response is read. Watch pages are large
// but well below this.
const maxBodySize = 8 << 20

// Ensure Fetcher implements tubechat.Fetcher at compile time.
var _ tubechat.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves watch page HTML using plain HTTP requests. Unlike
// rod.Fetcher, this does not execute JavaScript, so only metadata present in
// the server-rendered markup is available.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	language  string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithAcceptLanguage sets the Accept-Language header, which decides the
// language of localized page text.
func WithAcceptLanguage(lang string) Option {
	return func(f *Fetcher) {
		f.language = lang
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		language:  "en-US,en;q=0.9",
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", tubechat.Errorf(tubechat.EINVALID, "invalid URL %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.language != "" {
		req.Header.Set("Accept-Language", f.language)
	}
	// Skips the EU cookie consent interstitial.
	req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+cb"})

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode, url); err != nil {
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func checkStatus(code int, url string) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return tubechat.Errorf(tubechat.ENOTFOUND, "page not found: %s", url)
	case code == http.StatusTooManyRequests:
		return tubechat.Errorf(tubechat.ERATELIMIT, "HTTP 429 for %s", url)
	case code >= http.StatusInternalServerError:
		return tubechat.Errorf(tubechat.EUNAVAILABLE, "HTTP %d for %s", code, url)
	default:
		return tubechat.Errorf(tubechat.EINTERNAL, "HTTP %d for %s", code, url)
	}
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}
