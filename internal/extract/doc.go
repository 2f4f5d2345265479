// SPDX-License-Identifier: MPL-2.0

// Package extract materializes a downloaded release asset into an install
// directory. Zip archives are unpacked in-process, AppImages are moved into
// place and marked executable, and tarballs are handed to the host tar with
// a single wrapping folder flattened away.
package extract
