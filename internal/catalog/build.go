// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"slices"
	"time"

	"github.com/openlauncher/openlauncher/internal/asset"
	"github.com/openlauncher/openlauncher/pkg/platform"
)

// Build is one installable release record. Builds are read-only projections
// of a catalog fetch; two builds are the same build when their versions match.
type Build struct {
	// IsRelease is true for builds from the primary feed and false for
	// builds from the develop feed.
	IsRelease bool
	// PublishedAt is the zero time when the feed gave no timestamp.
	PublishedAt time.Time
	// Version is the raw tag, e.g. "v22.05.1".
	Version string
	// Notes is the release body (markdown), possibly empty.
	Notes  string
	Assets []asset.Asset
}

// HasTimestamp reports whether the feed gave a publish time.
func (b Build) HasTimestamp() bool { return !b.PublishedAt.IsZero() }

// ParsedVersion parses Version as a dotted numeric version.
func (b Build) ParsedVersion() (Version, bool) { return ParseVersion(b.Version) }

// IsInstallableOn reports whether at least one asset can run on host.
func (b Build) IsInstallableOn(host platform.Host) bool {
	return asset.AnyApplicable(host, b.Assets)
}

// CompareBuilds orders builds newest first. A build without a timestamp
// sorts after every timestamped build; otherwise the later timestamp wins.
func CompareBuilds(a, b Build) int {
	switch {
	case a.HasTimestamp() && !b.HasTimestamp():
		return -1
	case !a.HasTimestamp() && b.HasTimestamp():
		return 1
	case !a.HasTimestamp() && !b.HasTimestamp():
		return 0
	default:
		return b.PublishedAt.Compare(a.PublishedAt)
	}
}

// SortBuilds sorts builds in place, newest first. The sort is stable so
// builds with equal timestamps keep catalog order.
func SortBuilds(builds []Build) {
	slices.SortStableFunc(builds, CompareBuilds)
}

// Installable returns the builds a user may pick on host: builds with at
// least one applicable asset, restricted to the primary feed unless
// includePrerelease is set. Order is preserved.
func Installable(builds []Build, host platform.Host, includePrerelease bool) []Build {
	out := make([]Build, 0, len(builds))
	for _, b := range builds {
		if !includePrerelease && !b.IsRelease {
			continue
		}
		if !b.IsInstallableOn(host) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Find returns the build with the given version.
func Find(builds []Build, version string) (Build, bool) {
	i := slices.IndexFunc(builds, func(b Build) bool { return b.Version == version })
	if i < 0 {
		return Build{}, false
	}
	return builds[i], true
}
