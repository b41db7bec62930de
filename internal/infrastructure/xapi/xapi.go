// Package xapi implements the keywords-mode source on top of the X API v2
// recent-search endpoint.
package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"trenddigest/internal/domain"
	"trenddigest/internal/source"
)

const (
	requestTimeout = 30 * time.Second
	userAgent      = "x-ai-trends-digest/1.0"
	maxBodyBytes   = 4 << 20
)

// Source fetches recent tweets matching the keyword query.
type Source struct {
	token     string
	searchURL string
	client    *http.Client
	logger    *slog.Logger
}

var _ source.Source = (*Source)(nil)

// New wires the bearer credential and search endpoint.
func New(token, searchURL string, logger *slog.Logger) *Source {
	return &Source{
		token:     token,
		searchURL: searchURL,
		client:    &http.Client{Timeout: requestTimeout},
		logger:    logger,
	}
}

// Name identifies the source inside the registry.
func (s *Source) Name() string {
	return "keywords"
}

// Fetch builds the boolean-OR query, requests recent tweets, and normalizes
// the payload into items. API-level failures abort the whole run.
func (s *Source) Fetch(ctx context.Context, req source.Request) (source.Batch, error) {
	query := BuildQuery(req.Keywords)
	if query == "" {
		return source.Batch{}, &domain.Failure{
			Code:    domain.ExitEmptyInput,
			Message: fmt.Sprintf("Keyword list is empty. Add keywords to %s.", req.KeywordsFile),
		}
	}

	startTime := StartTime(time.Now().UTC(), req.SinceHours)
	maxResults := req.Limit * 5
	if maxResults < 50 {
		maxResults = 50
	}
	if maxResults > 100 {
		maxResults = 100
	}

	s.debug("search recent tweets", "query", query, "start_time", startTime, "max_results", maxResults)

	payload, err := s.searchRecent(ctx, query, startTime, maxResults)
	if err != nil {
		return source.Batch{}, err
	}
	if len(payload.Errors) > 0 {
		return source.Batch{}, &domain.Failure{
			Code:    domain.ExitUpstream,
			Message: "X API returned errors.",
			Details: payload.Errors,
		}
	}

	return source.Batch{
		Items:     buildItems(payload),
		Query:     query,
		StartTime: startTime,
	}, nil
}

// BuildQuery quotes each keyword, joins them with OR, and excludes retweets
// and replies. Embedded double quotes are stripped; blank keywords skipped.
func BuildQuery(keywords []string) string {
	quoted := make([]string, 0, len(keywords))
	for _, k := range keywords {
		cleaned := strings.TrimSpace(strings.ReplaceAll(k, `"`, ""))
		if cleaned == "" {
			continue
		}
		quoted = append(quoted, `"`+cleaned+`"`)
	}
	if len(quoted) == 0 {
		return ""
	}
	return "(" + strings.Join(quoted, " OR ") + ") -is:retweet -is:reply"
}

// StartTime renders the lookback window start as second-precision UTC
// ISO-8601 with a Z suffix, as the API requires.
func StartTime(now time.Time, sinceHours int) string {
	start := now.Add(-time.Duration(sinceHours) * time.Hour).Truncate(time.Second)
	return start.Format("2006-01-02T15:04:05Z")
}

type searchPayload struct {
	Data     []tweet `json:"data"`
	Includes struct {
		Users []user `json:"users"`
	} `json:"includes"`
	Errors []json.RawMessage `json:"errors"`
}

type tweet struct {
	ID            string         `json:"id"`
	Text          string         `json:"text"`
	AuthorID      string         `json:"author_id"`
	CreatedAt     string         `json:"created_at"`
	PublicMetrics map[string]int `json:"public_metrics"`
}

type user struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (s *Source) searchRecent(ctx context.Context, query, startTime string, maxResults int) (searchPayload, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("max_results", strconv.Itoa(maxResults))
	params.Set("tweet.fields", "created_at,public_metrics,lang")
	params.Set("expansions", "author_id")
	params.Set("user.fields", "username,name")
	params.Set("start_time", startTime)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+params.Encode(), nil)
	if err != nil {
		return searchPayload{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
			return searchPayload{}, &domain.Failure{
				Code:    domain.ExitUpstream,
				Message: "Timed out contacting X API.",
			}
		}
		return searchPayload{}, &domain.Failure{
			Code:    domain.ExitUpstream,
			Message: fmt.Sprintf("Network error contacting X API: %v.", err),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return searchPayload{}, &domain.Failure{
			Code:    domain.ExitUpstream,
			Message: fmt.Sprintf("Network error contacting X API: %v.", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return searchPayload{}, &domain.Failure{
			Code:    domain.ExitUpstream,
			Message: fmt.Sprintf("X API request failed with status %d.", resp.StatusCode),
			Details: string(body),
		}
	}

	var payload searchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return searchPayload{}, &domain.Failure{
			Code:    domain.ExitUpstream,
			Message: fmt.Sprintf("X API returned a malformed payload: %v.", err),
		}
	}
	return payload, nil
}

// buildItems joins tweets with their authors and computes the engagement
// score as the sum of like, retweet, reply, and quote counts.
func buildItems(payload searchPayload) []domain.Item {
	users := make(map[string]user, len(payload.Includes.Users))
	for _, u := range payload.Includes.Users {
		users[u.ID] = u
	}

	items := make([]domain.Item, 0, len(payload.Data))
	for _, t := range payload.Data {
		metrics := t.PublicMetrics
		if metrics == nil {
			metrics = map[string]int{}
		}
		engagement := metrics["like_count"] + metrics["retweet_count"] +
			metrics["reply_count"] + metrics["quote_count"]

		author := users[t.AuthorID]
		itemURL := "https://x.com/i/web/status/" + t.ID
		if author.Username != "" {
			itemURL = "https://x.com/" + author.Username + "/status/" + t.ID
		}

		name := author.Name
		if name == "" {
			name = author.Username
		}
		if name == "" {
			name = "unknown"
		}

		items = append(items, domain.Item{
			ID:              t.ID,
			Text:            t.Text,
			Author:          name,
			Username:        author.Username,
			URL:             itemURL,
			CreatedAt:       t.CreatedAt,
			Metrics:         metrics,
			EngagementScore: engagement,
		})
	}
	return items
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
