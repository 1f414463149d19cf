package tubechat

import "context"

// Fetcher retrieves the HTML of a watch page.
// Implementations may use browser automation to wait for
// JavaScript-rendered metadata.
type Fetcher interface {
	// Fetch retrieves the page and returns its HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}
