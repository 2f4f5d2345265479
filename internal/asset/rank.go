// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"slices"

	"github.com/openlauncher/openlauncher/pkg/platform"
)

// Compare orders two assets by preference for host; a negative result means
// a is preferred. The rules apply in order:
//
//  1. When the platforms differ, the one equal to the host platform wins.
//  2. When the platforms are equal but the archs differ, the one equal to
//     the host arch wins.
//  3. An AppImage beats anything that is not.
//
// Assets that no rule separates compare equal.
func Compare(host platform.Host, a, b Asset) int {
	ca, cb := Classify(a.Name), Classify(b.Name)

	if ca.Platform == cb.Platform {
		if ca.Arch != cb.Arch {
			if ca.Arch == host.Arch {
				return -1
			}
			if cb.Arch == host.Arch {
				return 1
			}
		}
	} else {
		if ca.Platform == host.Platform {
			return -1
		}
		if cb.Platform == host.Platform {
			return 1
		}
	}

	switch {
	case ca.AppImage && !cb.AppImage:
		return -1
	case !ca.AppImage && cb.AppImage:
		return 1
	default:
		return 0
	}
}

// Rank returns a copy of assets sorted most-preferred first. The sort is
// stable, so equally ranked assets keep their feed order. Rank does not
// filter; callers that need host-applicable assets use Select.
func Rank(host platform.Host, assets []Asset) []Asset {
	ranked := slices.Clone(assets)
	slices.SortStableFunc(ranked, func(a, b Asset) int {
		return Compare(host, a, b)
	})
	return ranked
}

// Select picks the best asset for host among those applicable to it. With
// portableOnly set, installers, symbol bundles and Windows executables are
// excluded first; self-update leaves it unset so the launcher's own
// executable asset stays eligible.
func Select(host platform.Host, assets []Asset, portableOnly bool) (Asset, bool) {
	candidates := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if !a.IsApplicableToHost(host) {
			continue
		}
		if portableOnly && !a.IsPortable() {
			continue
		}
		candidates = append(candidates, a)
	}
	if len(candidates) == 0 {
		return Asset{}, false
	}
	return Rank(host, candidates)[0], true
}

// AnyApplicable reports whether at least one asset can run on host.
func AnyApplicable(host platform.Host, assets []Asset) bool {
	return slices.ContainsFunc(assets, func(a Asset) bool {
		return a.IsApplicableToHost(host)
	})
}
