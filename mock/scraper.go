package mock

import (
	"context"

	"github.com/fwojciec/tubechat"
)

var _ tubechat.VideoScraper = (*VideoScraper)(nil)

// VideoScraper is a mock implementation of tubechat.VideoScraper.
type VideoScraper struct {
	ScrapeFn func(ctx context.Context, rawURL string) (*tubechat.Video, error)
}

func (s *VideoScraper) Scrape(ctx context.Context, rawURL string) (*tubechat.Video, error) {
	return s.ScrapeFn(ctx, rawURL)
}
