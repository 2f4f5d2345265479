// SPDX-License-Identifier: MPL-2.0

// Package github is a small client for the GitHub Releases REST API. It
// implements catalog.ReleaseSource and streams release assets for the
// downloader.
package github
