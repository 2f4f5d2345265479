// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"sync"
	"time"

	"github.com/openlauncher/openlauncher/internal/clock"
)

// epoch is where a FakeClock starts unless told otherwise.
var epoch = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // Fixed reference time.

// FakeClock is a clock.Clock that stands still until Advance is called. It
// is safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ clock.Clock = (*FakeClock)(nil)

// NewFakeClock returns a clock stopped at start, or at 2020-01-01 UTC when
// start is the zero time.
func NewFakeClock(start time.Time) *FakeClock {
	if start.IsZero() {
		start = epoch
	}
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
