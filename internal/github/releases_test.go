// SPDX-License-Identifier: MPL-2.0

package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openlauncher/openlauncher/internal/catalog"
)

var testRepo = catalog.Repository{Owner: "OpenRCT2", Name: "OpenRCT2"}

func ptrTime(t time.Time) *time.Time { return &t }

func TestListReleases_ConvertsRecords(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	releases := []githubRelease{
		{
			TagName: "v0.4.5", Name: "OpenRCT2 v0.4.5", Body: "## Changes", PublishedAt: ptrTime(published),
			Assets: []githubAsset{{
				Name:               "OpenRCT2-0.4.5-linux-x86_64.AppImage",
				BrowserDownloadURL: "https://github.com/OpenRCT2/OpenRCT2/releases/download/v0.4.5/OpenRCT2-0.4.5-linux-x86_64.AppImage",
				Size:               5242880,
				ContentType:        "application/octet-stream",
			}},
		},
		{TagName: "v0.4.6-rc1", Prerelease: true},
		{TagName: "v0.5.0", Draft: true},
	}

	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(releases); err != nil {
			t.Errorf("encoding releases: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background(), testRepo, catalog.DefaultPageOptions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/repos/OpenRCT2/OpenRCT2/releases" {
		t.Errorf("path = %q", gotPath)
	}
	// Drafts and prereleases are passed through; filtering is the catalog's job.
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}

	first := got[0]
	if first.Tag != "v0.4.5" || first.Body != "## Changes" || !first.PublishedAt.Equal(published) {
		t.Errorf("first record = %+v", first)
	}
	if len(first.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(first.Assets))
	}
	a := first.Assets[0]
	if a.Name != "OpenRCT2-0.4.5-linux-x86_64.AppImage" || a.Size != 5242880 || a.URI == "" {
		t.Errorf("asset = %+v", a)
	}
	if !got[1].Prerelease || !got[2].Draft {
		t.Error("prerelease and draft flags were not carried over")
	}
	if !got[1].PublishedAt.IsZero() {
		t.Errorf("missing published_at should yield zero time, got %v", got[1].PublishedAt)
	}
}

func TestListReleases_Pagination(t *testing.T) {
	t.Parallel()

	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.URL.Query().Get("page") == "2" {
			if err := json.NewEncoder(w).Encode([]githubRelease{{TagName: "v1.0.0"}}); err != nil {
				t.Errorf("encoding page 2: %v", err)
			}
			return
		}

		nextURL := fmt.Sprintf("%s/repos/OpenRCT2/OpenRCT2/releases?per_page=30&page=2", srvURL)
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, nextURL))
		if err := json.NewEncoder(w).Encode([]githubRelease{{TagName: "v2.0.0"}}); err != nil {
			t.Errorf("encoding page 1: %v", err)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background(), testRepo, catalog.DefaultPageOptions)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(got) != 2 || got[0].Tag != "v2.0.0" || got[1].Tag != "v1.0.0" {
		t.Errorf("got %+v, want v2.0.0 then v1.0.0", got)
	}
}

func TestListReleases_MaxPagesCap(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	var srvURL string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/o/r/releases?page=%d>; rel="next"`, srvURL, n+1))
		if err := json.NewEncoder(w).Encode([]githubRelease{{TagName: "v" + strconv.Itoa(int(n))}}); err != nil {
			t.Errorf("encoding: %v", err)
		}
	}))
	defer srv.Close()
	srvURL = srv.URL

	client := NewClient(WithBaseURL(srv.URL), WithRateLimit(0, 0))
	got, err := client.ListReleases(context.Background(), testRepo, catalog.PageOptions{PerPage: 1, MaxPages: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d records, want 2", len(got))
	}
	if n := requests.Load(); n != 2 {
		t.Errorf("made %d requests, want 2", n)
	}
}

func TestListReleases_PerPageQuery(t *testing.T) {
	t.Parallel()

	var gotPerPage string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPerPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.ListReleases(context.Background(), testRepo, catalog.PageOptions{PerPage: 50, MaxPages: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPerPage != "50" {
		t.Errorf("per_page = %q, want 50", gotPerPage)
	}
}

func TestListReleases_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.ListReleases(context.Background(), testRepo, catalog.DefaultPageOptions)

	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
	if got != nil {
		t.Errorf("expected no records on failure, got %+v", got)
	}
}

func TestListReleases_MalformedJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"not": "an array"`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.ListReleases(context.Background(), testRepo, catalog.DefaultPageOptions); err == nil {
		t.Fatal("expected a decoding error")
	}
}

func TestListReleases_ContextCanceled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(100 * time.Millisecond)
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.ListReleases(ctx, testRepo, catalog.DefaultPageOptions); err == nil {
		t.Fatal("expected error from canceled context, got nil")
	}
}

func TestGetLatestRelease(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/OpenRCT2/OpenRCT2/releases/latest" {
			t.Errorf("unexpected path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if err := json.NewEncoder(w).Encode(githubRelease{TagName: "v0.4.5", Name: "Latest"}); err != nil {
			t.Errorf("encoding release: %v", err)
		}
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.GetLatestRelease(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || got.Tag != "v0.4.5" {
		t.Errorf("got %+v, want v0.4.5", got)
	}
}

func TestGetLatestRelease_NoneIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	got, err := client.GetLatestRelease(context.Background(), testRepo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil release, got %+v", got)
	}
}

func TestRateLimitError(t *testing.T) {
	t.Parallel()

	resetTime := time.Date(2025, 7, 1, 14, 30, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetLatestRelease(context.Background(), testRepo)

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitError, got %T: %v", err, err)
	}
	if rle.Limit != 60 || rle.Remaining != 0 || !rle.ResetAt.Equal(resetTime) {
		t.Errorf("got %+v", rle)
	}
	if want := "GitHub API rate limit exceeded (0 remaining, resets at 14:30 UTC)"; rle.Error() != want {
		t.Errorf("Error() = %q, want %q", rle.Error(), want)
	}
}

func TestRateLimitError_NonRateLimit403(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.GetLatestRelease(context.Background(), testRepo)
	if err == nil {
		t.Fatal("expected error for 403, got nil")
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		t.Errorf("403 without rate limit headers reported as %+v", rle)
	}
}

func TestGitHubAPIHeaders(t *testing.T) {
	t.Parallel()

	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		fmt.Fprint(w, "[]")
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.ListReleases(context.Background(), testRepo, catalog.DefaultPageOptions); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := gotHeaders.Get("Accept"); got != "application/vnd.github+json" {
		t.Errorf("got Accept header %q", got)
	}
	if got := gotHeaders.Get("X-GitHub-Api-Version"); got != "2022-11-28" {
		t.Errorf("got X-GitHub-Api-Version header %q", got)
	}
}

func TestParseLinkHeader(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"empty header", "", ""},
		{
			"next link present",
			`<https://api.github.com/repos/o/r/releases?page=2>; rel="next", <https://api.github.com/repos/o/r/releases?page=5>; rel="last"`,
			"https://api.github.com/repos/o/r/releases?page=2",
		},
		{
			"no next link",
			`<https://api.github.com/repos/o/r/releases?page=1>; rel="prev", <https://api.github.com/repos/o/r/releases?page=5>; rel="last"`,
			"",
		},
		{
			"next link only",
			`<https://api.github.com/repos/o/r/releases?page=3>; rel="next"`,
			"https://api.github.com/repos/o/r/releases?page=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := parseLinkHeader(tt.header); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_FeedsCatalog(t *testing.T) {
	t.Parallel()

	published := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/OpenRCT2/OpenRCT2/releases":
			_ = json.NewEncoder(w).Encode([]githubRelease{{TagName: "v1.0.0", PublishedAt: ptrTime(published)}})
		case "/repos/OpenRCT2/OpenRCT2/releases/latest":
			_ = json.NewEncoder(w).Encode(githubRelease{TagName: "v1.1.0", PublishedAt: ptrTime(published.Add(time.Hour))})
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	cat := catalog.New(NewClient(WithBaseURL(srv.URL)))
	builds, err := cat.ResolveBuilds(context.Background(), catalog.Target{Name: "OpenRCT2", Release: testRepo}, false)
	if err != nil {
		t.Fatalf("ResolveBuilds: %v", err)
	}
	if len(builds) != 2 || builds[0].Version != "v1.1.0" || builds[1].Version != "v1.0.0" {
		t.Errorf("builds = %+v", builds)
	}
}
