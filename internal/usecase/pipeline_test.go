package usecase

import (
	"context"
	"testing"
	"time"

	"trenddigest/internal/domain"
	"trenddigest/internal/source"
)

type fakeSource struct {
	name  string
	batch source.Batch
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(ctx context.Context, req source.Request) (source.Batch, error) {
	return f.batch, f.err
}

func TestResolveMode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		mode     string
		hasToken bool
		want     string
	}{
		{ModeAuto, true, ModeKeywords},
		{ModeAuto, false, ModeFeeds},
		{ModeKeywords, true, ModeKeywords},
		{ModeKeywords, false, ModeFeeds},
		{ModeAccounts, true, ModeAccounts},
		{ModeAccounts, false, ModeAccounts},
		{ModeFeeds, true, ModeFeeds},
	}

	for _, c := range cases {
		if got := ResolveMode(c.mode, c.hasToken); got != c.want {
			t.Fatalf("ResolveMode(%s, %v) = %s, want %s", c.mode, c.hasToken, got, c.want)
		}
	}
}

func TestPipelineRunAccountsFiltersAndRanks(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.February, 4, 12, 0, 0, 0, time.UTC)
	batch := source.Batch{
		Items: []domain.Item{
			{URL: "https://e.com/old", Text: "stale", CreatedAt: now.Add(-30 * time.Hour).Format(time.RFC3339)},
			{URL: "https://e.com/1", Text: "keep older", CreatedAt: now.Add(-4 * time.Hour).Format(time.RFC3339)},
			{URL: "https://e.com/2", Text: "keep newer", CreatedAt: now.Add(-1 * time.Hour).Format(time.RFC3339)},
			{URL: "https://e.com/2", Text: "duplicate", CreatedAt: now.Add(-1 * time.Hour).Format(time.RFC3339)},
			{URL: "https://e.com/spam", Text: "crypto giveaway", CreatedAt: now.Add(-2 * time.Hour).Format(time.RFC3339)},
		},
		Sources: []string{"karpathy"},
		Errors:  []domain.SourceError{{Account: "broken", Error: "boom"}},
	}

	registry := source.NewRegistry()
	registry.Register(&fakeSource{name: ModeAccounts, batch: batch})

	p := NewPipeline(registry, nil)
	p.now = func() time.Time { return now }

	report, err := p.Run(context.Background(), ModeAccounts, source.Request{
		SinceHours: 24,
		Limit:      10,
		Exclude:    []string{"crypto"},
	})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.Mode != ModeAccounts {
		t.Fatalf("unexpected mode: %s", report.Mode)
	}
	if report.Fetched != 2 {
		t.Fatalf("expected fetched=2, got %d", report.Fetched)
	}
	if len(report.Items) != 2 || report.Items[0].Text != "keep newer" {
		t.Fatalf("unexpected ranking: %v", report.Items)
	}
	if len(report.Errors) != 1 || report.Errors[0].Account != "broken" {
		t.Fatalf("expected per-account error carried through, got %v", report.Errors)
	}
	if len(report.Accounts) != 1 || report.Accounts[0] != "karpathy" {
		t.Fatalf("expected accounts list in report, got %v", report.Accounts)
	}
	if report.Notice != "" {
		t.Fatalf("unexpected notice: %s", report.Notice)
	}
}

func TestPipelineRunEmptyResultCarriesNotice(t *testing.T) {
	t.Parallel()

	registry := source.NewRegistry()
	registry.Register(&fakeSource{name: ModeFeeds, batch: source.Batch{}})

	p := NewPipeline(registry, nil)

	report, err := p.Run(context.Background(), ModeFeeds, source.Request{SinceHours: 24, Limit: 10})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.Notice == "" {
		t.Fatalf("expected notice on empty result")
	}
	if report.Items == nil || len(report.Items) != 0 {
		t.Fatalf("expected empty, non-nil items slice, got %#v", report.Items)
	}
}

func TestPipelineRunPropagatesFailure(t *testing.T) {
	t.Parallel()

	failure := &domain.Failure{Code: domain.ExitEmptyInput, Message: "Keyword list is empty."}
	registry := source.NewRegistry()
	registry.Register(&fakeSource{name: ModeKeywords, err: failure})

	p := NewPipeline(registry, nil)

	_, err := p.Run(context.Background(), ModeKeywords, source.Request{})
	if err != failure {
		t.Fatalf("expected failure propagated, got %v", err)
	}
}

func TestPipelineRunKeywordsSkipsWindowFilter(t *testing.T) {
	t.Parallel()

	// the API already bounded the window server-side; items without
	// timestamps still rank by engagement
	batch := source.Batch{
		Items: []domain.Item{
			{ID: "1", EngagementScore: 3},
			{ID: "2", EngagementScore: 9},
		},
		Query:     `("a") -is:retweet -is:reply`,
		StartTime: "2026-02-03T12:00:00Z",
	}

	registry := source.NewRegistry()
	registry.Register(&fakeSource{name: ModeKeywords, batch: batch})

	p := NewPipeline(registry, nil)

	report, err := p.Run(context.Background(), ModeKeywords, source.Request{SinceHours: 24, Limit: 1})
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}

	if report.Fetched != 2 || len(report.Items) != 1 || report.Items[0].ID != "2" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Query == "" || report.StartTime == "" {
		t.Fatalf("expected query metadata carried through, got %+v", report)
	}
}
