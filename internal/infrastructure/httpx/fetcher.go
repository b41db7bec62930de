// Package httpx implements the two-strategy transport every fetch path uses:
// a direct net/http client first, then a process-based curl fallback.
// Strategies are tried in order, the first success wins, and the last error
// propagates.
package httpx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	// DefaultUserAgent identifies the toolchain to upstream servers.
	DefaultUserAgent = "x-ai-trends-digest/1.0"

	// mirrorPrefix routes a blocked URL through a public rendering mirror.
	mirrorPrefix = "https://r.jina.ai/http://r.jina.ai/"

	maxBodyBytes = 4 << 20 // cap feed/page bodies at 4MB
)

// Strategy fetches the body behind a URL using one transport mechanism.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error)
}

// StatusError reports a non-2xx HTTP response together with its body.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.Code)
}

// Direct performs a plain GET with a per-call timeout.
type Direct struct {
	client    *http.Client
	userAgent string
}

var _ Strategy = (*Direct)(nil)

// NewDirect wires an HTTP client; an empty user agent falls back to the default.
func NewDirect(client *http.Client, userAgent string) *Direct {
	if client == nil {
		client = &http.Client{}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Direct{client: client, userAgent: userAgent}
}

// Name identifies the strategy in logs.
func (d *Direct) Name() string {
	return "direct"
}

// Fetch GETs rawURL and returns the body, failing on any non-2xx status.
func (d *Direct) Fetch(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// Fetcher holds the ordered strategy list shared by the feed paths.
type Fetcher struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewFetcher builds a fetcher trying strategies in the given order.
func NewFetcher(logger *slog.Logger, strategies ...Strategy) *Fetcher {
	return &Fetcher{strategies: strategies, logger: logger}
}

// Get tries each strategy in order and returns the first successful body.
func (f *Fetcher) Get(ctx context.Context, rawURL string, timeout time.Duration) ([]byte, error) {
	var lastErr error
	for i, s := range f.strategies {
		body, err := s.Fetch(ctx, rawURL, timeout)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if f.logger != nil && i < len(f.strategies)-1 {
			f.logger.Debug("transport failed, trying fallback",
				"strategy", s.Name(), "url", rawURL, "error", err)
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no transport strategies configured")
	}
	return nil, lastErr
}

// MirrorURL rewrites rawURL so it is fetched through the rendering mirror.
func MirrorURL(rawURL string) string {
	return mirrorPrefix + rawURL
}
