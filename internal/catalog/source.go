// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"context"
	"time"

	"github.com/openlauncher/openlauncher/internal/asset"
)

type (
	// Repository names a release feed as owner/name.
	Repository struct {
		Owner string
		Name  string
	}

	// Target is something the launcher can install: a primary release feed
	// and an optional develop feed of pre-release builds.
	Target struct {
		Name    string
		Release Repository
		Develop Repository
	}

	// PageOptions bounds a release listing.
	PageOptions struct {
		PerPage  int
		MaxPages int
	}

	// Release is one raw record as returned by a ReleaseSource.
	Release struct {
		Tag         string
		Name        string
		Body        string
		PublishedAt time.Time
		Prerelease  bool
		Draft       bool
		Assets      []asset.Asset
	}

	// ReleaseSource lists release records for a repository. GetLatestRelease
	// returns (nil, nil) when the repository has no latest release.
	ReleaseSource interface {
		ListReleases(ctx context.Context, repo Repository, opts PageOptions) ([]Release, error)
		GetLatestRelease(ctx context.Context, repo Repository) (*Release, error)
	}
)

// DefaultPageOptions lists up to three pages of 30 releases.
var DefaultPageOptions = PageOptions{PerPage: 30, MaxPages: 3}

// String renders the repository as "owner/name".
func (r Repository) String() string { return r.Owner + "/" + r.Name }

// IsZero reports whether the repository is unset.
func (r Repository) IsZero() bool { return r.Owner == "" && r.Name == "" }

// HasDevelop reports whether the target declares a develop feed.
func (t Target) HasDevelop() bool { return !t.Develop.IsZero() }

// toBuild projects a raw record into a Build tagged with its feed.
func toBuild(r Release, isRelease bool) Build {
	return Build{
		IsRelease:   isRelease,
		PublishedAt: r.PublishedAt,
		Version:     r.Tag,
		Notes:       r.Body,
		Assets:      r.Assets,
	}
}
