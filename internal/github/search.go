package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Repo is the subset of repository metadata the pipeline cares about.
type Repo struct {
	FullName      string    `json:"full_name"`
	HTMLURL       string    `json:"html_url"`
	Description   string    `json:"description"`
	Stars         int       `json:"stargazers_count"`
	Forks         int       `json:"forks_count"`
	PushedAt      time.Time `json:"pushed_at"`
	DefaultBranch string    `json:"default_branch"`
}

type repoSearchPayload struct {
	TotalCount int    `json:"total_count"`
	Items      []Repo `json:"items"`
}

// SearchRepositories returns one page of keyword search results sorted by
// popularity descending. An unprocessable query comes back as zero items,
// not an error.
func (c *Client) SearchRepositories(ctx context.Context, query string, page int) ([]Repo, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("sort", "stars")
	q.Set("order", "desc")
	q.Set("per_page", "30")
	q.Set("page", strconv.Itoa(page))

	resp, err := c.Get(ctx, c.BaseURL+"/search/repositories?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GH_SEARCH: repository search returned status %d", resp.StatusCode)
	}
	var payload repoSearchPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("GH_SEARCH: %w", err)
	}
	return payload.Items, nil
}

// CodeResult is one code-search hit: a file path inside a repository.
type CodeResult struct {
	Path    string `json:"path"`
	HTMLURL string `json:"html_url"`
	Repo    Repo   `json:"repository"`
}

type codeSearchPayload struct {
	TotalCount int          `json:"total_count"`
	Items      []CodeResult `json:"items"`
}

// SearchCode runs an authenticated code search. Callers gate on
// Authenticated; the endpoint rejects anonymous requests outright.
func (c *Client) SearchCode(ctx context.Context, query string) ([]CodeResult, error) {
	if !c.Authenticated() {
		return nil, fmt.Errorf("GH_SEARCH: code search requires a token")
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", "30")

	resp, err := c.Get(ctx, c.BaseURL+"/search/code?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GH_SEARCH: code search returned status %d", resp.StatusCode)
	}
	var payload codeSearchPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("GH_SEARCH: %w", err)
	}
	return payload.Items, nil
}
