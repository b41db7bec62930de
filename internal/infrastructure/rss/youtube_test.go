package rss

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestIsYouTubeRef(t *testing.T) {
	t.Parallel()

	yes := []string{
		"youtube:@lexfridman",
		"yt:UCabc123",
		"https://www.youtube.com/@lexfridman",
	}
	for _, raw := range yes {
		if !IsYouTubeRef(raw) {
			t.Fatalf("expected %q recognized as YouTube ref", raw)
		}
	}

	if IsYouTubeRef("https://example.com/rss") {
		t.Fatalf("plain feed URL should not be a YouTube ref")
	}
}

func TestResolveYouTubeHandle(t *testing.T) {
	t.Parallel()

	fetch := &stubFetcher{bodies: map[string]string{
		"https://www.youtube.com/@lexfridman": `<html>{"channelId":"UCSHZKyawb77ixDdsGog4iWA"}</html>`,
	}}
	src := NewFeedSource(fetch, nil)

	got, err := src.resolveYouTube(context.Background(), "@lexfridman", time.Second)
	if err != nil {
		t.Fatalf("resolveYouTube error: %v", err)
	}
	want := "https://www.youtube.com/feeds/videos.xml?channel_id=UCSHZKyawb77ixDdsGog4iWA"
	if got != want {
		t.Fatalf("resolveYouTube = %q, want %q", got, want)
	}
}

func TestResolveYouTubeHandleViaMirror(t *testing.T) {
	t.Parallel()

	handleURL := "https://www.youtube.com/@lexfridman"
	fetch := &stubFetcher{bodies: map[string]string{
		handleURL: `<html>consent page without ids</html>`,
		"https://r.jina.ai/http://r.jina.ai/" + handleURL: `{"browseId":"UC123abc"}`,
	}}
	src := NewFeedSource(fetch, nil)

	got, err := src.resolveYouTube(context.Background(), "youtube:@lexfridman", time.Second)
	if err != nil {
		t.Fatalf("resolveYouTube error: %v", err)
	}
	if got != "https://www.youtube.com/feeds/videos.xml?channel_id=UC123abc" {
		t.Fatalf("unexpected feed URL: %q", got)
	}
}

func TestResolveYouTubeShortcuts(t *testing.T) {
	t.Parallel()

	src := NewFeedSource(&stubFetcher{}, nil)

	got, err := src.resolveYouTube(context.Background(), "yt:UCabc", time.Second)
	if err != nil {
		t.Fatalf("resolveYouTube error: %v", err)
	}
	if got != "https://www.youtube.com/feeds/videos.xml?channel_id=UCabc" {
		t.Fatalf("unexpected feed URL: %q", got)
	}

	passthrough := "https://www.youtube.com/feeds/videos.xml?channel_id=UCxyz"
	got, err = src.resolveYouTube(context.Background(), passthrough, time.Second)
	if err != nil || got != passthrough {
		t.Fatalf("expected passthrough, got %q (%v)", got, err)
	}
}

func TestResolveYouTubeChannelURLExtractsHandle(t *testing.T) {
	t.Parallel()

	fetch := &stubFetcher{bodies: map[string]string{
		"https://www.youtube.com/@lexfridman": `{"channelId":"UCfeed"}`,
	}}
	src := NewFeedSource(fetch, nil)

	got, err := src.resolveYouTube(context.Background(), "https://www.youtube.com/@lexfridman", time.Second)
	if err != nil {
		t.Fatalf("resolveYouTube error: %v", err)
	}
	if !strings.HasSuffix(got, "channel_id=UCfeed") {
		t.Fatalf("unexpected feed URL: %q", got)
	}
}

func TestResolveYouTubeUnsupportedFormat(t *testing.T) {
	t.Parallel()

	src := NewFeedSource(&stubFetcher{}, nil)
	if _, err := src.resolveYouTube(context.Background(), "youtube:whatever", time.Second); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
