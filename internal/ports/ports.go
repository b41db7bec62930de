package ports

import (
	"context"
	"time"
)

// Fetcher retrieves raw bytes over HTTP with a bounded per-call timeout,
// falling back across transport strategies internally.
type Fetcher interface {
	Get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}
