package rss

import (
	"testing"
)

const rssBody = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Blog</title>
    <item>
      <title>First post</title>
      <link>https://example.com/first</link>
      <pubDate>Wed, 04 Feb 2026 09:00:00 +0100</pubDate>
    </item>
    <item>
      <title>Undated post</title>
      <link>https://example.com/undated</link>
    </item>
  </channel>
</rss>`

const atomBody = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Example Channel</title>
  <entry>
    <title>A video</title>
    <link rel="alternate" href="https://www.youtube.com/watch?v=abc"/>
    <published>2026-02-03T08:00:00+00:00</published>
    <updated>2026-02-04T10:00:00+00:00</updated>
  </entry>
</feed>`

func TestParseItemsRSS(t *testing.T) {
	t.Parallel()

	items, err := ParseItems([]byte(rssBody), "example")
	if err != nil {
		t.Fatalf("ParseItems error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	first := items[0]
	if first.ID != "https://example.com/first" || first.Text != "First post" {
		t.Fatalf("unexpected item: %+v", first)
	}
	if first.Source != "example" || first.Author != "example" {
		t.Fatalf("expected source label applied, got %+v", first)
	}
	// +0100 normalized to UTC
	if first.CreatedAt != "2026-02-04T08:00:00Z" {
		t.Fatalf("unexpected created_at: %s", first.CreatedAt)
	}
	if first.EngagementScore != 0 || first.Metrics == nil {
		t.Fatalf("expected zero engagement for feed item: %+v", first)
	}

	if items[1].CreatedAt != "" {
		t.Fatalf("expected empty created_at for undated entry, got %s", items[1].CreatedAt)
	}
}

func TestParseItemsAtomPrefersUpdated(t *testing.T) {
	t.Parallel()

	items, err := ParseItems([]byte(atomBody), "channel")
	if err != nil {
		t.Fatalf("ParseItems error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].CreatedAt != "2026-02-04T10:00:00Z" {
		t.Fatalf("expected updated timestamp, got %s", items[0].CreatedAt)
	}
	if items[0].URL != "https://www.youtube.com/watch?v=abc" {
		t.Fatalf("unexpected link: %s", items[0].URL)
	}
}

func TestParseItemsRejectsNonFeedBody(t *testing.T) {
	t.Parallel()

	if _, err := ParseItems([]byte("<html><body>not a feed</body></html>"), "x"); err == nil {
		t.Fatalf("expected error for non-feed body")
	}
}
