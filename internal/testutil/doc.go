// SPDX-License-Identifier: MPL-2.0

// Package testutil holds helpers shared by tests: environment overrides
// that restore themselves, per-test user directories and a controllable
// clock.
package testutil
