// SPDX-License-Identifier: MPL-2.0

// Package selfupdate replaces the running launcher executable with a newer
// release. The running file is renamed to a ".backup" sibling, the new
// download is moved into its place, and the new process is started before
// the current one exits. Launchers installed by a package manager or
// running inside a sandbox are detected and pointed at their own upgrade
// path instead.
package selfupdate
