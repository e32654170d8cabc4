package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// GetRepo fetches metadata for one owner/name repository.
func (c *Client) GetRepo(ctx context.Context, fullName string) (Repo, error) {
	resp, err := c.Get(ctx, c.BaseURL+"/repos/"+fullName)
	if err != nil {
		return Repo{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Repo{}, fmt.Errorf("GH_REPO: %s returned status %d", fullName, resp.StatusCode)
	}
	var repo Repo
	if err := json.Unmarshal(resp.Body, &repo); err != nil {
		return Repo{}, fmt.Errorf("GH_REPO: %w", err)
	}
	return repo, nil
}

// TreeEntry is one path in a recursive tree listing.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

type treePayload struct {
	Tree      []TreeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

// ListTree lists every path in the repository at the given branch.
func (c *Client) ListTree(ctx context.Context, fullName, branch string) ([]TreeEntry, error) {
	u := fmt.Sprintf("%s/repos/%s/git/trees/%s?recursive=1", c.BaseURL, fullName, url.PathEscape(branch))
	resp, err := c.Get(ctx, u)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GH_TREE: %s@%s returned status %d", fullName, branch, resp.StatusCode)
	}
	var payload treePayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, fmt.Errorf("GH_TREE: %w", err)
	}
	if payload.Truncated {
		c.logf("tree listing for %s@%s truncated by the API", fullName, branch)
	}
	return payload.Tree, nil
}

type contentsPayload struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// FetchContent retrieves and decodes one file. A missing or inaccessible
// file is an expected outcome during a broad crawl, so any non-success is
// reported as ok=false rather than an error.
func (c *Client) FetchContent(ctx context.Context, fullName, path string) (string, bool) {
	resp, err := c.Get(ctx, c.BaseURL+"/repos/"+fullName+"/contents/"+escapePath(path))
	if err != nil {
		c.logf("fetch %s/%s failed: %v", fullName, path, err)
		return "", false
	}
	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	var payload contentsPayload
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return "", false
	}
	if payload.Encoding != "base64" {
		return payload.Content, true
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload.Content, "\n", ""))
	if err != nil {
		c.logf("decode %s/%s failed: %v", fullName, path, err)
		return "", false
	}
	return string(decoded), true
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
