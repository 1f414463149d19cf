package tubechat

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// MaxDescriptionLength is the number of runes of a video description kept
// when scraping a watch page.
const MaxDescriptionLength = 1000

// Video holds the metadata scraped from a YouTube watch page.
type Video struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Description string `json:"description"`
}

// Validate returns an error if the video contains invalid fields.
func (v *Video) Validate() error {
	if v.ID == "" {
		return Errorf(EINVALID, "video ID required")
	}
	if !videoIDRe.MatchString(v.ID) {
		return Errorf(EINVALID, "invalid video ID %q", v.ID)
	}
	return nil
}

// VideoScraper extracts video metadata from a watch page.
type VideoScraper interface {
	// Scrape fetches the watch page for rawURL and returns its metadata.
	// Returns EINVALID if rawURL does not identify a video.
	Scrape(ctx context.Context, rawURL string) (*Video, error)
}

var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ParseVideoID returns the video ID for a watch, short, embed or youtu.be
// URL. A bare 11-character ID is returned unchanged.
func ParseVideoID(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if videoIDRe.MatchString(rawURL) {
		return rawURL, nil
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid video URL %q", rawURL)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"),
			strings.HasPrefix(u.Path, "/embed/"),
			strings.HasPrefix(u.Path, "/live/"):
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) >= 2 {
				id = parts[1]
			}
		}
	}

	if !videoIDRe.MatchString(id) {
		return "", Errorf(EINVALID, "not a YouTube video URL: %q", rawURL)
	}
	return id, nil
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + url.QueryEscape(id)
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n < 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
