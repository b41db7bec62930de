// Package wechat talks to the WeChat Official Account HTTP API: access-token
// exchange, permanent material upload, draft creation, and publishing.
// Provider responses are passed through verbatim; only the presence of the
// expected id fields is checked at the call sites.
package wechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"strings"
	"time"
)

const (
	tokenPath   = "/cgi-bin/token"
	draftPath   = "/cgi-bin/draft/add"
	publishPath = "/cgi-bin/freepublish/submit"
	uploadPath  = "/cgi-bin/material/add_material"

	requestTimeout = 30 * time.Second
	uploadTimeout  = 60 * time.Second
	curlTimeoutSec = "20"
)

// Client is a thin wrapper over the Official Account endpoints. When the
// direct transport fails and resolveIPs is configured, requests retry once
// through curl with the API host pinned to those addresses.
type Client struct {
	host       string
	resolveIPs []string
	http       *http.Client
	logger     *slog.Logger
}

// NewClient wires the API host (scheme included) and optional DNS pins.
func NewClient(host string, resolveIPs []string, logger *slog.Logger) *Client {
	return &Client{
		host:       strings.TrimSuffix(host, "/"),
		resolveIPs: resolveIPs,
		http:       &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// AccessToken exchanges the app credentials for a short-lived token.
// A response without an access_token field is fatal.
func (c *Client) AccessToken(ctx context.Context, appID, appSecret string) (string, error) {
	params := url.Values{}
	params.Set("grant_type", "client_credential")
	params.Set("appid", appID)
	params.Set("secret", appSecret)

	data, err := c.requestJSON(ctx, http.MethodGet, c.host+tokenPath+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("request token: %w", err)
	}

	token, ok := data["access_token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("failed to get access_token: %v", data)
	}
	return token, nil
}

// Article is one draft entry in the draft/add payload.
type Article struct {
	ArticleType        string `json:"article_type"`
	Title              string `json:"title"`
	Author             string `json:"author"`
	Digest             string `json:"digest"`
	Content            string `json:"content"`
	ContentSourceURL   string `json:"content_source_url"`
	ThumbMediaID       string `json:"thumb_media_id"`
	NeedOpenComment    int    `json:"need_open_comment"`
	OnlyFansCanComment int    `json:"only_fans_can_comment"`
}

// AddDraft submits a single-article draft and returns the provider response.
func (c *Client) AddDraft(ctx context.Context, token string, article Article) (map[string]any, error) {
	if article.ArticleType == "" {
		article.ArticleType = "news"
	}
	payload := map[string]any{"articles": []Article{article}}

	data, err := c.requestJSON(ctx, http.MethodPost, c.host+draftPath+"?access_token="+url.QueryEscape(token), payload)
	if err != nil {
		return nil, fmt.Errorf("draft add: %w", err)
	}
	return data, nil
}

// Publish submits a draft for free publishing and returns the provider response.
func (c *Client) Publish(ctx context.Context, token, mediaID string) (map[string]any, error) {
	payload := map[string]any{"media_id": mediaID}

	data, err := c.requestJSON(ctx, http.MethodPost, c.host+publishPath+"?access_token="+url.QueryEscape(token), payload)
	if err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	return data, nil
}

// requestJSON performs a JSON round trip on the direct transport and falls
// back to curl once on transport failure.
func (c *Client) requestJSON(ctx context.Context, method, rawURL string, payload any) (map[string]any, error) {
	data, err := c.directJSON(ctx, method, rawURL, payload)
	if err == nil {
		return data, nil
	}

	c.debug("direct transport failed, retrying via curl", "url", rawURL, "error", err)
	data, curlErr := c.curlJSON(ctx, method, rawURL, payload)
	if curlErr != nil {
		return nil, err
	}
	return data, nil
}

func (c *Client) directJSON(ctx context.Context, method, rawURL string, payload any) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		raw, err := marshalNoEscape(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return data, nil
}

// curlJSON shells out to curl, pinning the API host to the configured IPs.
func (c *Client) curlJSON(ctx context.Context, method, rawURL string, payload any) (map[string]any, error) {
	args := []string{"-sS", "--fail", "--max-time", curlTimeoutSec, "-X", method}
	host := hostOf(c.host)
	for _, ip := range c.resolveIPs {
		args = append(args, "--resolve", fmt.Sprintf("%s:443:%s", host, ip))
	}
	if payload != nil {
		raw, err := marshalNoEscape(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal payload: %w", err)
		}
		args = append(args, "-H", "Content-Type: application/json", "-d", string(raw))
	}
	args = append(args, rawURL)

	cmd := exec.CommandContext(ctx, "curl", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("curl: %s", msg)
	}

	var data map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &data); err != nil {
		return nil, fmt.Errorf("decode curl response: %w", err)
	}
	return data, nil
}

// marshalNoEscape keeps CJK and HTML characters literal in the payload.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return strings.TrimPrefix(strings.TrimPrefix(base, "https://"), "http://")
	}
	return u.Hostname()
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
