package rss

import (
	"context"
	"fmt"
	"log/slog"

	"trenddigest/internal/domain"
	"trenddigest/internal/ports"
	"trenddigest/internal/source"
)

// FeedSource fetches arbitrary RSS/Atom feeds, resolving YouTube handles
// to channel video feeds on the way.
type FeedSource struct {
	fetch  ports.Fetcher
	logger *slog.Logger

	// youtubeBase is swapped out in tests.
	youtubeBase string
}

var _ source.Source = (*FeedSource)(nil)

// NewFeedSource wires the transport used for feed fetches.
func NewFeedSource(fetch ports.Fetcher, logger *slog.Logger) *FeedSource {
	return &FeedSource{fetch: fetch, logger: logger, youtubeBase: defaultYouTubeBase}
}

// Name identifies the source inside the registry.
func (s *FeedSource) Name() string {
	return "feeds"
}

// Fetch walks the configured feed list sequentially. A failing feed is
// recorded and skipped; it never aborts the batch.
func (s *FeedSource) Fetch(ctx context.Context, req source.Request) (source.Batch, error) {
	if len(req.Feeds) == 0 {
		return source.Batch{}, &domain.Failure{
			Code:    domain.ExitEmptyInput,
			Message: fmt.Sprintf("Feed list is empty. Add RSS/Atom feeds to %s.", req.FeedsFile),
		}
	}

	feeds := req.Feeds
	if req.MaxFeeds > 0 && len(feeds) > req.MaxFeeds {
		feeds = feeds[:req.MaxFeeds]
	}

	var batch source.Batch
	for _, ref := range feeds {
		if ref.URL == "" {
			continue
		}
		label := ref.Label
		if label == "" {
			label = ref.URL
		}

		items, err := s.fetchFeed(ctx, ref.URL, label, req)
		if err != nil {
			s.debug("feed fetch failed", "feed", ref.URL, "error", err)
			batch.Errors = append(batch.Errors, domain.SourceError{Feed: ref.URL, Error: err.Error()})
			continue
		}
		batch.Sources = append(batch.Sources, label)
		batch.Items = append(batch.Items, items...)
	}
	return batch, nil
}

func (s *FeedSource) fetchFeed(ctx context.Context, feedURL, label string, req source.Request) ([]domain.Item, error) {
	if IsYouTubeRef(feedURL) {
		resolved, err := s.resolveYouTube(ctx, feedURL, req.Timeout)
		if err != nil {
			return nil, err
		}
		feedURL = resolved
	}

	body, err := s.fetch.Get(ctx, feedURL, req.Timeout)
	if err != nil {
		return nil, err
	}
	return ParseItems(body, label)
}

func (s *FeedSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
