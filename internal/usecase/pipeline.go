package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"trenddigest/internal/domain"
	"trenddigest/internal/source"
)

// Fetch mode names; they double as source registry keys.
const (
	ModeAuto     = "auto"
	ModeKeywords = "keywords"
	ModeAccounts = "accounts"
	ModeFeeds    = "feeds"
)

// emptyNotice flags a successful run whose window produced nothing.
const emptyNotice = "No results returned for this time window."

// Pipeline orchestrates one fetch run: resolve the source for the requested
// mode, fetch, then filter, dedupe, rank, and truncate.
type Pipeline struct {
	registry *source.Registry
	logger   *slog.Logger
	now      func() time.Time
}

// NewPipeline wires the source registry into the orchestration component.
func NewPipeline(registry *source.Registry, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		registry: registry,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ResolveMode maps the auto mode onto a concrete source: keywords when an
// API credential is present, otherwise the requested non-API mode (feeds
// unless accounts was explicit).
func ResolveMode(mode string, hasToken bool) string {
	if (mode == ModeAuto || mode == ModeKeywords) && hasToken {
		return ModeKeywords
	}
	if mode == ModeAccounts {
		return ModeAccounts
	}
	return ModeFeeds
}

// Run executes the fetch-normalize-filter-rank pipeline for one mode and
// builds the printable report. Whole-run failures come back as
// *domain.Failure carrying the exit code.
func (p *Pipeline) Run(ctx context.Context, mode string, req source.Request) (domain.Report, error) {
	src, err := p.registry.Resolve(mode)
	if err != nil {
		return domain.Report{}, fmt.Errorf("resolve mode: %w", err)
	}

	p.debug("fetch start", "mode", mode, "since_hours", req.SinceHours, "limit", req.Limit)

	batch, err := src.Fetch(ctx, req)
	if err != nil {
		return domain.Report{}, err
	}

	items := batch.Items
	switch mode {
	case ModeKeywords:
		// the API already filtered by start_time; rank and cut only
		SortByEngagement(items)
	case ModeAccounts:
		items = FilterExcluded(items, req.Exclude)
		items = FilterSince(items, req.SinceHours, p.now())
		items = Dedupe(items)
		SortByRecency(items)
	default:
		items = FilterExcluded(items, req.Exclude)
		items = FilterSince(items, req.SinceHours, p.now())
		items = Dedupe(items)
		SortByWeight(items)
	}

	fetched := len(items)
	limited := Truncate(items, req.Limit)
	if limited == nil {
		limited = []domain.Item{}
	}

	p.debug("fetch done", "mode", mode, "fetched", fetched, "returned", len(limited), "errors", len(batch.Errors))

	report := domain.Report{
		Mode:      mode,
		Query:     batch.Query,
		StartTime: batch.StartTime,
		Limit:     req.Limit,
		Fetched:   fetched,
		Items:     limited,
		Errors:    batch.Errors,
	}
	switch mode {
	case ModeAccounts:
		report.Accounts = batch.Sources
	case ModeFeeds:
		report.Feeds = batch.Sources
	}
	if len(limited) == 0 {
		report.Notice = emptyNotice
	}

	return report, nil
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
