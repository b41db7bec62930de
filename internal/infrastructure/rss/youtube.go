package rss

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"trenddigest/internal/infrastructure/httpx"
)

const (
	defaultYouTubeBase = "https://www.youtube.com"
	videoFeedURL       = "https://www.youtube.com/feeds/videos.xml?channel_id="
)

var (
	channelIDExpr = regexp.MustCompile(`"channelId":"(UC[^"]+)"`)
	browseIDExpr  = regexp.MustCompile(`"browseId":"(UC[^"]+)"`)
)

// IsYouTubeRef recognizes the feed-file shortcuts that need resolution to a
// canonical channel video feed.
func IsYouTubeRef(raw string) bool {
	return strings.HasPrefix(raw, "youtube:") ||
		strings.HasPrefix(raw, "yt:") ||
		strings.Contains(raw, "youtube.com/@")
}

// resolveYouTube turns a handle, shortcut, or channel id into the canonical
// videos.xml feed URL. Handles require scraping the channel page for its id;
// the mirror is retried when the direct page does not expose one.
func (s *FeedSource) resolveYouTube(ctx context.Context, raw string, timeout time.Duration) (string, error) {
	target := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(target, "youtube:"); ok {
		target = strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(target, "yt:"); ok {
		target = strings.TrimSpace(rest)
	}

	if strings.HasPrefix(target, "http") {
		if strings.Contains(target, "youtube.com/feeds/videos.xml") {
			return target, nil
		}
		if strings.Contains(target, "youtube.com/@") {
			_, after, _ := strings.Cut(target, "youtube.com/")
			target = strings.TrimSpace(after)
		}
	}

	if strings.HasPrefix(target, "@") {
		handleURL := s.youtubeBase + "/" + target

		var id string
		body, err := s.fetch.Get(ctx, handleURL, timeout)
		if err == nil {
			id = matchChannelID(body)
		}
		if id == "" {
			body, err = s.fetch.Get(ctx, httpx.MirrorURL(handleURL), timeout)
			if err != nil {
				return "", fmt.Errorf("resolve %s: %w", target, err)
			}
			id = matchChannelID(body)
		}
		if id == "" {
			return "", fmt.Errorf("unable to resolve YouTube channel id from handle %s", target)
		}
		return videoFeedURL + id, nil
	}

	if strings.HasPrefix(target, "UC") {
		return videoFeedURL + target, nil
	}

	return "", fmt.Errorf("unsupported YouTube feed format: %s", raw)
}

func matchChannelID(body []byte) string {
	if m := channelIDExpr.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	if m := browseIDExpr.FindSubmatch(body); m != nil {
		return string(m[1])
	}
	return ""
}
