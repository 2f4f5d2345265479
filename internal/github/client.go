// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint.
	DefaultBaseURL = "https://api.github.com"

	// maxJSONResponseBytes is the upper bound on JSON API response size (10 MB).
	maxJSONResponseBytes = 10 << 20

	// defaultRequestsPerSecond throttles bursts of API calls, e.g. when the
	// catalog fetches several feeds concurrently.
	defaultRequestsPerSecond = 10
	defaultBurst             = 10
)

type (
	// RateLimitError is returned when the GitHub API rate limit is exceeded.
	RateLimitError struct {
		Limit     int
		Remaining int
		ResetAt   time.Time
	}

	// StatusError is returned for any non-success HTTP status that is not a
	// rate limit response.
	StatusError struct {
		URL        string
		StatusCode int
	}

	// Client talks to the GitHub Releases API.
	Client struct {
		httpClient *http.Client
		limiter    *rate.Limiter
		baseURL    string
		token      string
		userAgent  string
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)
)

// Error formats the rate limit details as a human-readable message.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("GitHub API rate limit exceeded (%d remaining, resets at %s)",
		e.Remaining, e.ResetAt.UTC().Format("15:04 UTC"))
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.URL, e.StatusCode)
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(g *Client) {
		g.httpClient = c
	}
}

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(g *Client) {
		g.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets a personal access token for authenticated requests.
// Authenticated requests have a higher rate limit (5000/hour vs 60/hour).
func WithToken(token string) ClientOption {
	return func(g *Client) {
		g.token = token
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(g *Client) {
		g.userAgent = ua
	}
}

// WithRateLimit sets the client-side request budget. A non-positive rps
// disables throttling.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(g *Client) {
		if rps <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		g.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// NewClient creates a Client. Defaults: baseURL=DefaultBaseURL,
// userAgent="openlauncher/dev", httpClient=http.DefaultClient.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		baseURL:    DefaultBaseURL,
		userAgent:  "openlauncher/dev",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the User-Agent header value the client sends.
func (c *Client) UserAgent() string { return c.userAgent }

// DownloadAsset starts downloading the file at assetURL and returns the
// streaming response body together with its declared length, or -1 when the
// server did not declare one. The caller closes the body.
func (c *Client) DownloadAsset(ctx context.Context, assetURL string) (io.ReadCloser, int64, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, assetURL, "application/octet-stream")
	if err != nil {
		return nil, 0, fmt.Errorf("downloading asset %s: %w", redactURL(assetURL), err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("downloading asset: %w", &StatusError{URL: redactURL(assetURL), StatusCode: resp.StatusCode})
	}

	return resp.Body, resp.ContentLength, nil
}

// doRequest waits for the rate limiter, then executes an HTTP request with
// the common GitHub API headers.
func (c *Client) doRequest(ctx context.Context, method, reqURL, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", accept)
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", c.userAgent)

	// Only attach the token when the request targets a known GitHub host so a
	// redirect to a third-party CDN never sees it.
	if c.token != "" && isGitHubHost(req.URL, c.baseURL) {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	return resp, nil
}

// checkRateLimit returns a RateLimitError when the X-RateLimit-Remaining
// header is present and zero. The status code is not inspected.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil {
		return nil //nolint:nilerr // Non-numeric header is non-fatal.
	}
	if rem > 0 {
		return nil
	}

	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))                 //nolint:errcheck // Best-effort header parsing.
	resetUnix, _ := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64) //nolint:errcheck // Best-effort header parsing.

	return &RateLimitError{
		Limit:     limit,
		Remaining: 0,
		ResetAt:   time.Unix(resetUnix, 0),
	}
}

// isGitHubHost reports whether reqURL targets the configured API host or,
// when the base is api.github.com, github.com itself.
func isGitHubHost(reqURL *url.URL, baseURL string) bool {
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}
	if strings.EqualFold(reqURL.Host, base.Host) {
		return true
	}
	return strings.EqualFold(base.Host, "api.github.com") && strings.EqualFold(reqURL.Host, "github.com")
}

// redactURL strips query parameters and fragments for safe inclusion in
// error messages.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
