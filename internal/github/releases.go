// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/internal/catalog"
)

const apiAccept = "application/vnd.github+json"

type (
	// githubRelease is the JSON wire format for a GitHub Release API response.
	githubRelease struct {
		TagName     string        `json:"tag_name"`
		Name        string        `json:"name"`
		Body        string        `json:"body"`
		Prerelease  bool          `json:"prerelease"`
		Draft       bool          `json:"draft"`
		PublishedAt *time.Time    `json:"published_at"`
		Assets      []githubAsset `json:"assets"`
	}

	// githubAsset is the JSON wire format for a GitHub Release asset.
	githubAsset struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
		ContentType        string `json:"content_type"`
	}
)

var _ catalog.ReleaseSource = (*Client)(nil)

// ListReleases fetches the release listing of repo, following Link
// pagination up to opts.MaxPages. Records are returned in API order.
func (c *Client) ListReleases(ctx context.Context, repo catalog.Repository, opts catalog.PageOptions) ([]catalog.Release, error) {
	if opts.PerPage <= 0 || opts.MaxPages <= 0 {
		opts = catalog.DefaultPageOptions
	}
	pageURL := fmt.Sprintf("%s/repos/%s/%s/releases?per_page=%d",
		c.baseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name), opts.PerPage)

	var all []catalog.Release
	for page := 0; page < opts.MaxPages && pageURL != ""; page++ {
		releases, next, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("listing releases of %s: %w", repo, err)
		}
		all = append(all, releases...)
		pageURL = next
	}
	return all, nil
}

// GetLatestRelease fetches the release GitHub marks as latest. A repository
// without one yields (nil, nil).
func (c *Client) GetLatestRelease(ctx context.Context, repo catalog.Repository) (*catalog.Release, error) {
	latestURL := fmt.Sprintf("%s/repos/%s/%s/releases/latest",
		c.baseURL, url.PathEscape(repo.Owner), url.PathEscape(repo.Name))

	resp, err := c.doRequest(ctx, http.MethodGet, latestURL, apiAccept)
	if err != nil {
		return nil, fmt.Errorf("getting latest release of %s: %w", repo, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if err := checkRateLimit(resp); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("getting latest release of %s: %w", repo, &StatusError{URL: latestURL, StatusCode: resp.StatusCode})
	}

	var gr githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxJSONResponseBytes)).Decode(&gr); err != nil {
		return nil, fmt.Errorf("getting latest release of %s: decoding response: %w", repo, err)
	}

	r := toRelease(gr)
	return &r, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (releases []catalog.Release, next string, err error) {
	resp, err := c.doRequest(ctx, http.MethodGet, pageURL, apiAccept)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	if rlErr := checkRateLimit(resp); rlErr != nil {
		return nil, "", rlErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", &StatusError{URL: redactURL(pageURL), StatusCode: resp.StatusCode}
	}

	releases, err = parseReleases(io.LimitReader(resp.Body, maxJSONResponseBytes))
	if err != nil {
		return nil, "", err
	}
	return releases, parseLinkHeader(resp.Header.Get("Link")), nil
}

// parseReleases decodes a JSON array of GitHub releases.
func parseReleases(body io.Reader) ([]catalog.Release, error) {
	var raw []githubRelease
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding releases: %w", err)
	}

	releases := make([]catalog.Release, 0, len(raw))
	for _, gr := range raw {
		releases = append(releases, toRelease(gr))
	}
	return releases, nil
}

// parseLinkHeader extracts the URL for the "next" page from a Link header.
// Returns an empty string if no next page exists.
//
// Example header: <https://api.github.com/...?page=2>; rel="next", <...>; rel="last"
func parseLinkHeader(header string) string {
	if header == "" {
		return ""
	}

	for part := range strings.SplitSeq(header, ",") {
		part = strings.TrimSpace(part)
		if !strings.Contains(part, `rel="next"`) {
			continue
		}

		start := strings.Index(part, "<")
		end := strings.Index(part, ">")
		if start >= 0 && end > start {
			return part[start+1 : end]
		}
	}

	return ""
}

// toRelease converts the wire type to a catalog record. A missing
// published_at leaves PublishedAt zero.
func toRelease(gr githubRelease) catalog.Release {
	assets := make([]asset.Asset, 0, len(gr.Assets))
	for _, ga := range gr.Assets {
		assets = append(assets, asset.Asset{
			Name:        ga.Name,
			URI:         ga.BrowserDownloadURL,
			ContentType: ga.ContentType,
			Size:        ga.Size,
		})
	}

	r := catalog.Release{
		Tag:        gr.TagName,
		Name:       gr.Name,
		Body:       gr.Body,
		Prerelease: gr.Prerelease,
		Draft:      gr.Draft,
		Assets:     assets,
	}
	if gr.PublishedAt != nil {
		r.PublishedAt = gr.PublishedAt.UTC()
	}
	return r
}
