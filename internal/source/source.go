package source

import (
	"context"
	"fmt"
	"time"

	"trenddigest/internal/domain"
)

// Request carries all parameters required to execute one fetch run.
type Request struct {
	SinceHours int
	Limit      int

	Keywords     []string
	KeywordsFile string

	Accounts     []string
	AccountsFile string

	Feeds     []domain.FeedRef
	FeedsFile string
	MaxFeeds  int

	Exclude []string

	Timeout time.Duration
}

// Batch is the raw, unranked result of one source fetch. Per-source failures
// land in Errors; Items holds whatever the remaining sources produced.
type Batch struct {
	Items  []domain.Item
	Errors []domain.SourceError

	// Query and StartTime are set by the keywords source only.
	Query     string
	StartTime string

	// Sources lists the normalized handles or feed labels actually fetched.
	Sources []string
}

// Source captures a single fetch strategy (X API, account RSS, feed list).
type Source interface {
	Name() string
	Fetch(ctx context.Context, req Request) (Batch, error)
}

// Registry keeps a mapping from mode names to their source implementations.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]Source{}}
}

// Register adds or replaces a source implementation.
func (r *Registry) Register(src Source) {
	if r.sources == nil {
		r.sources = map[string]Source{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by mode name or an error if it is absent.
func (r *Registry) Resolve(name string) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}
