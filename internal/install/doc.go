// SPDX-License-Identifier: MPL-2.0

// Package install installs a build into a target's binary directory and
// keeps that directory recoverable. Every install runs through an explicit
// state machine: the live directory is renamed to a backup before
// extraction, and on any failure the partial content is discarded and the
// backup renamed back. The installed version is recorded in a plain text
// marker file next to the extracted files.
package install
