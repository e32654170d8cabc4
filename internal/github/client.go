// Package github is a thin, rate-limit-aware client for the three GitHub API
// surfaces the crawl consumes: repository search, code search, and repository
// metadata/tree/contents reads.
package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.github.com"
	userAgent      = "antigravity-skills/1.0 (+https://github.com/tdclogic1/antigravity-skills)"

	// maxRetries bounds retry attempts after the initial request, for both
	// rate-limit waits and 5xx backoff.
	maxRetries = 2

	// lowQuotaThreshold triggers a diagnostic line when remaining quota
	// drops below it.
	lowQuotaThreshold = 10
)

// Client issues GET requests against the GitHub API, absorbing transient
// failures and rate-limit pauses so callers only see terminal outcomes.
type Client struct {
	http  *http.Client
	token string

	// BaseURL is the API root; tests point it at a local server.
	BaseURL string
	// Diag receives timestamped human diagnostics; defaults to stderr.
	Diag io.Writer

	// sleep is swappable in tests; it must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

func New(httpClient *http.Client, token string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		http:    httpClient,
		token:   token,
		BaseURL: defaultBaseURL,
		Diag:    os.Stderr,
		sleep:   sleepCtx,
	}
}

// Authenticated reports whether a credential is configured. Its absence is a
// supported degraded mode: lower rate tiers and no code search.
func (c *Client) Authenticated() bool { return c.token != "" }

// Response is the typed result of one logical GET: status, body, and the
// rate-limit headers every endpoint shares.
type Response struct {
	StatusCode    int
	Body          []byte
	RateRemaining int
	RateReset     time.Time
}

// RateLimitError is returned once the retry budget is spent against an
// exhausted quota.
type RateLimitError struct {
	Wait          time.Duration
	Authenticated bool
}

func (e *RateLimitError) Error() string {
	msg := fmt.Sprintf("GH_RATE_LIMIT: quota exhausted, resets in %s", e.Wait.Round(time.Second))
	if !e.Authenticated {
		msg += " (set GITHUB_TOKEN to raise the limit)"
	}
	return msg
}

// Get issues one logical request. Policy:
//   - 403 with zero remaining quota: wait until the reset timestamp (minimum
//     one second) and retry, up to maxRetries, then fail with RateLimitError.
//   - 422: a malformed or too-broad search query degrades to an empty-result
//     success rather than aborting the crawl.
//   - 5xx and transport errors: linear backoff, 2s times the attempt number.
func (c *Client) Get(ctx context.Context, url string) (Response, error) {
	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Response{}, err
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/vnd.github+json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt < maxRetries {
				if serr := c.sleep(ctx, backoff(attempt)); serr != nil {
					return Response{}, serr
				}
				continue
			}
			return Response{}, fmt.Errorf("GH_HTTP: %w", err)
		}
		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return Response{}, fmt.Errorf("GH_HTTP: %w", readErr)
		}

		out := Response{
			StatusCode:    resp.StatusCode,
			Body:          body,
			RateRemaining: headerInt(resp.Header.Get("X-RateLimit-Remaining")),
			RateReset:     headerUnix(resp.Header.Get("X-RateLimit-Reset")),
		}
		if out.RateRemaining >= 0 && out.RateRemaining < lowQuotaThreshold {
			c.logf("rate limit low: %d requests remaining", out.RateRemaining)
		}

		switch {
		case resp.StatusCode == http.StatusForbidden && out.RateRemaining == 0:
			wait := time.Until(out.RateReset)
			if wait < time.Second {
				wait = time.Second
			}
			if attempt < maxRetries {
				c.logf("rate limited, waiting %s", wait.Round(time.Second))
				if serr := c.sleep(ctx, wait); serr != nil {
					return Response{}, serr
				}
				continue
			}
			return Response{}, &RateLimitError{Wait: wait, Authenticated: c.token != ""}

		case resp.StatusCode == http.StatusUnprocessableEntity:
			out.StatusCode = http.StatusOK
			out.Body = []byte(`{"total_count":0,"items":[]}`)
			return out, nil

		case resp.StatusCode >= 500:
			if attempt < maxRetries {
				if serr := c.sleep(ctx, backoff(attempt)); serr != nil {
					return Response{}, serr
				}
				continue
			}
			return Response{}, fmt.Errorf("GH_HTTP: server error %d", resp.StatusCode)
		}
		return out, nil
	}
}

func (c *Client) logf(format string, args ...any) {
	fmt.Fprintf(c.Diag, "[%s] %s\n", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))
}

// backoff is linear: 2s for the first retry, 4s for the second.
func backoff(attempt int) time.Duration {
	return time.Duration(attempt+1) * 2 * time.Second
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func headerInt(v string) int {
	if v == "" {
		return -1
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

func headerUnix(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(secs, 0)
}
