// SPDX-License-Identifier: MPL-2.0

// Package shell provides the filesystem and process primitives the install
// and self-update engines are built on. External commands such as tar and
// chmod run through an embedded POSIX shell interpreter so argument quoting
// and exit statuses behave the same on every host.
package shell
