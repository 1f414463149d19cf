package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/tubechat"
)

// Ensure LoggingScraper implements tubechat.VideoScraper.
var _ tubechat.VideoScraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a VideoScraper with logging.
type LoggingScraper struct {
	next   tubechat.VideoScraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next tubechat.VideoScraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape logs the scraped video and delegates to the wrapped scraper.
func (s *LoggingScraper) Scrape(ctx context.Context, rawURL string) (video *tubechat.Video, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", rawURL}
		if video != nil {
			attrs = append(attrs,
				"video", video.ID,
				"title", video.Title,
				"description_len", len([]rune(video.Description)),
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		s.logger.Log(ctx, levelFor(err), "scrape", attrs...)
	}(time.Now())
	return s.next.Scrape(ctx, rawURL)
}
