// SPDX-License-Identifier: MPL-2.0

// Package catalog turns raw release records from a ReleaseSource into an
// ordered, deduplicated list of installable Builds.
//
// A target has a primary release feed and, optionally, a develop feed of
// pre-release builds. Each feed is listed page by page and its "latest"
// record is also fetched on its own, because the latest release can fall
// outside the listed pages. All feeds are fetched concurrently through a
// circuit breaker; any failure surfaces as ErrSourceUnavailable, never as an
// empty list.
package catalog
