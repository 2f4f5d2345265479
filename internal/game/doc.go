// SPDX-License-Identifier: MPL-2.0

// Package game holds the table of installable targets. The table is an
// embedded CUE document validated against games_schema.cue at load time.
package game
