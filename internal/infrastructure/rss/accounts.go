package rss

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"trenddigest/internal/domain"
	"trenddigest/internal/infrastructure/httpx"
	"trenddigest/internal/ports"
	"trenddigest/internal/source"
)

const defaultNitterBase = "https://nitter.net"

// AccountSource fetches per-account timelines from a public RSS mirror.
type AccountSource struct {
	fetch  ports.Fetcher
	logger *slog.Logger
	base   string
}

var _ source.Source = (*AccountSource)(nil)

// NewAccountSource wires the transport used for timeline fetches.
func NewAccountSource(fetch ports.Fetcher, logger *slog.Logger) *AccountSource {
	return &AccountSource{fetch: fetch, logger: logger, base: defaultNitterBase}
}

// Name identifies the source inside the registry.
func (s *AccountSource) Name() string {
	return "accounts"
}

// NormalizeHandle strips the leading @ and any embedded spaces.
func NormalizeHandle(raw string) string {
	return strings.ReplaceAll(strings.TrimLeft(strings.TrimSpace(raw), "@"), " ", "")
}

// Fetch pulls each account timeline sequentially. A failing account is
// recorded and skipped; it never aborts the batch.
func (s *AccountSource) Fetch(ctx context.Context, req source.Request) (source.Batch, error) {
	if len(req.Accounts) == 0 {
		return source.Batch{}, &domain.Failure{
			Code:    domain.ExitEmptyInput,
			Message: fmt.Sprintf("Account list is empty. Add handles to %s.", req.AccountsFile),
		}
	}

	normalized := make([]string, 0, len(req.Accounts))
	for _, raw := range req.Accounts {
		if handle := NormalizeHandle(raw); handle != "" {
			normalized = append(normalized, handle)
		}
	}
	if len(normalized) == 0 {
		return source.Batch{}, &domain.Failure{
			Code:    domain.ExitEmptyInput,
			Message: "Account list contains no valid handles.",
		}
	}

	var batch source.Batch
	batch.Sources = normalized
	for _, handle := range normalized {
		items, err := s.fetchAccount(ctx, handle, req.Timeout)
		if err != nil {
			s.debug("account fetch failed", "account", handle, "error", err)
			batch.Errors = append(batch.Errors, domain.SourceError{Account: handle, Error: err.Error()})
			continue
		}
		batch.Items = append(batch.Items, items...)
	}
	return batch, nil
}

// fetchAccount tries the primary feed URL and retries through the mirror
// when the fetch or the parse fails.
func (s *AccountSource) fetchAccount(ctx context.Context, handle string, timeout time.Duration) ([]domain.Item, error) {
	feedURL := fmt.Sprintf("%s/%s/rss", s.base, handle)

	body, err := s.fetch.Get(ctx, feedURL, timeout)
	if err == nil {
		if items, parseErr := ParseItems(body, handle); parseErr == nil {
			return items, nil
		}
	}

	body, err = s.fetch.Get(ctx, httpx.MirrorURL(feedURL), timeout)
	if err != nil {
		return nil, err
	}
	return ParseItems(body, handle)
}

func (s *AccountSource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
