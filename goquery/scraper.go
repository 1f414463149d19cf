// Package goquery implements tubechat.VideoScraper by querying watch page
// markup with goquery.
package goquery

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/tubechat"
)

// Selectors for the client-rendered watch page, tried before the
// server-rendered meta tags.
const (
	titleSelector       = "h1.ytd-video-primary-info-renderer yt-formatted-string, h1.title yt-formatted-string, #title h1 yt-formatted-string"
	channelSelector     = "#channel-name a, ytd-channel-name a"
	descriptionSelector = "#description-inline-expander yt-attributed-string span, ytd-text-inline-expander #description yt-formatted-string"
)

// Ensure Scraper implements tubechat.VideoScraper at compile time.
var _ tubechat.VideoScraper = (*Scraper)(nil)

// Scraper extracts video metadata from watch pages.
type Scraper struct {
	fetcher   tubechat.Fetcher
	converter tubechat.Converter
}

// NewScraper creates a new Scraper. The converter turns the description
// markup into Markdown; if nil, descriptions are kept as plain text.
func NewScraper(fetcher tubechat.Fetcher, converter tubechat.Converter) *Scraper {
	return &Scraper{fetcher: fetcher, converter: converter}
}

// Scrape fetches the watch page for rawURL and returns its metadata.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*tubechat.Video, error) {
	id, err := tubechat.ParseVideoID(rawURL)
	if err != nil {
		return nil, err
	}

	watchURL := tubechat.WatchURL(id)
	html, err := s.fetcher.Fetch(ctx, watchURL)
	if err != nil {
		return nil, err
	}

	video, err := s.ParseWatchPage(html)
	if err != nil {
		return nil, err
	}
	video.ID = id
	video.URL = watchURL
	return video, nil
}

// ParseWatchPage extracts title, channel and description from watch page
// HTML. Returns ENOTFOUND if the page carries none of them.
func (s *Scraper) ParseWatchPage(html string) (*tubechat.Video, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, tubechat.Errorf(tubechat.EINVALID, "failed to parse HTML: %v", err)
	}

	video := &tubechat.Video{
		Title:       extractTitle(doc),
		Channel:     extractChannel(doc),
		Description: s.extractDescription(doc),
	}
	if video.Title == "" && video.Channel == "" && video.Description == "" {
		return nil, tubechat.Errorf(tubechat.ENOTFOUND, "no video metadata found on page")
	}
	return video, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := cleanText(doc.Find(titleSelector).First().Text()); title != "" {
		return title
	}
	if title := metaContent(doc, `meta[property="og:title"]`, `meta[name="title"]`); title != "" {
		return title
	}
	title := cleanText(doc.Find("title").First().Text())
	return strings.TrimSpace(strings.TrimSuffix(title, "- YouTube"))
}

func extractChannel(doc *goquery.Document) string {
	if channel := cleanText(doc.Find(channelSelector).First().Text()); channel != "" {
		return channel
	}
	return metaContent(doc,
		`span[itemprop="author"] link[itemprop="name"]`,
		`link[itemprop="name"]`,
	)
}

func (s *Scraper) extractDescription(doc *goquery.Document) string {
	desc := ""
	if sel := doc.Find(descriptionSelector).First(); sel.Length() > 0 {
		desc = s.descriptionText(sel)
	}
	if desc == "" {
		desc = metaContent(doc, `meta[property="og:description"]`, `meta[name="description"]`)
	}
	return strings.TrimSpace(tubechat.TruncateRunes(desc, tubechat.MaxDescriptionLength))
}

// descriptionText converts the description element to Markdown, keeping
// links readable. Falls back to the element text.
func (s *Scraper) descriptionText(sel *goquery.Selection) string {
	if s.converter != nil {
		sel.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			a.SetAttr("href", unwrapRedirect(href))
		})
		if html, err := goquery.OuterHtml(sel); err == nil {
			if md, err := s.converter.Convert(html); err == nil && md != "" {
				return md
			}
		}
	}
	return strings.TrimSpace(sel.Text())
}

// unwrapRedirect returns the target of a youtube.com/redirect link.
// Other links are returned unchanged.
func unwrapRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil || u.Path != "/redirect" {
		return href
	}
	if q := u.Query().Get("q"); q != "" {
		return q
	}
	return href
}

// metaContent returns the first non-empty content attribute among the
// selectors.
func metaContent(doc *goquery.Document, selectors ...string) string {
	for _, selector := range selectors {
		content, _ := doc.Find(selector).First().Attr("content")
		if content = cleanText(content); content != "" {
			return content
		}
	}
	return ""
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
