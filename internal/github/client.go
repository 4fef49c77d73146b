// Package github is a minimal REST client for the commit and pull-request
// read endpoints the pipeline consumes. Responses are parsed into typed
// records at this boundary; auth and rate-limit failures surface as
// distinguishable error codes.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"docpulse/internal/config"
	"docpulse/internal/errors"
)

// HTTPClient interface for HTTP operations (allows mocking in tests).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the GitHub REST API v3.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	httpClient HTTPClient
}

// NewClient creates a GitHub client. token may be empty, which limits the
// client to public, lower-rate-limited access.
func NewClient(cfg config.GitHubConfig, token string, httpClient HTTPClient) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	if httpClient == nil {
		timeout := time.Duration(cfg.RequestTimeoutMs) * time.Millisecond
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		pageSize:   pageSize,
		httpClient: httpClient,
	}
}

// PageSize returns the effective page size, used by callers to detect
// short pages.
func (c *Client) PageSize() int {
	return c.pageSize
}

// ListCommits returns one page of commits on the default branch since the
// cutoff, newest first.
func (c *Client) ListCommits(ctx context.Context, owner, repo string, since time.Time, page int) ([]CommitSummary, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits?since=%s&per_page=%d&page=%d",
		c.baseURL, owner, repo, since.UTC().Format(time.RFC3339), c.pageSize, page)

	var items []apiCommitListItem
	if err := c.doRequest(ctx, url, &items); err != nil {
		return nil, err
	}

	out := make([]CommitSummary, 0, len(items))
	for _, item := range items {
		if summary, ok := item.toSummary(); ok {
			out = append(out, summary)
		}
	}
	return out, nil
}

// GetCommit returns the file-level detail for one commit.
func (c *Client) GetCommit(ctx context.Context, owner, repo, sha string) (*CommitDetail, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/commits/%s", c.baseURL, owner, repo, sha)

	var detail apiCommitDetail
	if err := c.doRequest(ctx, url, &detail); err != nil {
		return nil, err
	}

	out := &CommitDetail{SHA: detail.SHA}
	for _, f := range detail.Files {
		if f.Filename == "" {
			continue
		}
		out.Files = append(out.Files, f.toFileChange())
	}
	return out, nil
}

// ListClosedPulls returns one page of closed pull requests, most recently
// updated first. Unmerged PRs are filtered out.
func (c *Client) ListClosedPulls(ctx context.Context, owner, repo string, page int) ([]Pull, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls?state=closed&sort=updated&direction=desc&per_page=%d&page=%d",
		c.baseURL, owner, repo, c.pageSize, page)

	var items []apiPull
	if err := c.doRequest(ctx, url, &items); err != nil {
		return nil, err
	}

	out := make([]Pull, 0, len(items))
	for _, item := range items {
		if pull, ok := item.toPull(); ok {
			out = append(out, pull)
		}
	}
	return out, nil
}

// ListPullFiles returns the changed files of one pull request.
func (c *Client) ListPullFiles(ctx context.Context, owner, repo string, number int) ([]FileChange, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d/files?per_page=%d", c.baseURL, owner, repo, number, c.pageSize)

	var items []apiFile
	if err := c.doRequest(ctx, url, &items); err != nil {
		return nil, err
	}

	out := make([]FileChange, 0, len(items))
	for _, f := range items {
		if f.Filename == "" {
			continue
		}
		out = append(out, f.toFileChange())
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.New(errors.InternalError, "failed to create request", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.New(errors.FetchFailed, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return errors.New(errors.FetchFailed, "failed to decode response", err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		return errors.New(errors.AuthFailed, "GitHub rejected the credential", nil)

	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests:
		if reset, ok := rateLimitReset(resp); ok {
			return errors.New(errors.RateLimited,
				fmt.Sprintf("GitHub rate limit exhausted, resets at %s", reset.UTC().Format(time.RFC1123)), nil)
		}
		return errors.New(errors.AuthFailed, "GitHub denied access", nil)

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.New(errors.FetchFailed,
			fmt.Sprintf("API returned status %d: %s", resp.StatusCode, string(body)), nil)
	}
}

// rateLimitReset derives the reset time from the rate-limit headers when
// the limit is actually exhausted.
func rateLimitReset(resp *http.Response) (time.Time, bool) {
	if resp.Header.Get("X-RateLimit-Remaining") != "0" {
		return time.Time{}, false
	}
	reset := resp.Header.Get("X-RateLimit-Reset")
	if reset == "" {
		return time.Time{}, false
	}
	ts, err := strconv.ParseInt(reset, 10, 64)
	if err != nil || ts <= 0 {
		return time.Time{}, false
	}
	return time.Unix(ts, 0), true
}
