// SPDX-License-Identifier: MPL-2.0

// Package clock abstracts reading the current time. Build age labels and
// the update-check throttle take a Clock so tests can pin "now"; see
// testutil.FakeClock.
package clock

import "time"

type (
	// Clock reads the current time.
	Clock interface {
		Now() time.Time
	}

	// Real is the wall clock.
	Real struct{}
)

var _ Clock = Real{}

// Now returns time.Now().
func (Real) Now() time.Time { return time.Now() }
