// Package rss implements the accounts-mode and feeds-mode sources on top of
// public RSS/Atom feeds, with a mirror fallback for blocked upstreams.
package rss

import (
	"bytes"
	"fmt"
	"time"

	"github.com/mmcdole/gofeed"

	"trenddigest/internal/domain"
)

// ParseItems parses an RSS or Atom body (detected from the root element)
// into normalized items labeled with the originating source.
func ParseItems(body []byte, label string) ([]domain.Item, error) {
	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	items := make([]domain.Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		id := entry.Link
		if id == "" {
			id = entry.Title
		}

		items = append(items, domain.Item{
			ID:        id,
			Text:      entry.Title,
			Author:    label,
			URL:       entry.Link,
			CreatedAt: entryTimestamp(feed.FeedType, entry),
			Metrics:   map[string]int{},
			Source:    label,
		})
	}
	return items, nil
}

// entryTimestamp normalizes the entry date to UTC ISO-8601. Atom prefers
// updated over published; RSS uses pubDate. An unparseable or missing date
// yields an empty string, which the time-window filter later drops.
func entryTimestamp(feedType string, entry *gofeed.Item) string {
	ts := entry.PublishedParsed
	if feedType == "atom" && entry.UpdatedParsed != nil {
		ts = entry.UpdatedParsed
	}
	if ts == nil {
		ts = entry.UpdatedParsed
	}
	if ts == nil {
		return ""
	}
	return ts.UTC().Format(time.RFC3339)
}
