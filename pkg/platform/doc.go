// SPDX-License-Identifier: MPL-2.0

// Package platform describes the machine the launcher runs on.
//
// The host descriptor (operating system platform plus CPU architecture) is
// captured once at process start with DetectHost and passed explicitly to
// anything that matches release assets against the running machine, so asset
// ranking stays a pure function that tests can drive with HostFor.
package platform
