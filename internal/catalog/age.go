// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"fmt"
	"time"
)

const (
	day = 24 * time.Hour
	// daysPerMonth is the fixed month length used for age labels.
	daysPerMonth = 30
	// yearThresholdMonths switches labels from months to years.
	yearThresholdMonths = 24
)

// Age renders how long before now t was, e.g. "3 days ago". Counts are
// truncated: under an hour shows minutes, under a day hours, under 30 days
// days, under 24 months months (30-day months) and years beyond that.
func Age(now, t time.Time) string {
	offset := now.Sub(t)
	if offset < day {
		if offset < time.Hour {
			return pluralise(offset.Minutes(), "minute")
		}
		return pluralise(offset.Hours(), "hour")
	}

	days := offset.Hours() / 24
	if days < daysPerMonth {
		return pluralise(days, "day")
	}
	months := days / daysPerMonth
	if months < yearThresholdMonths {
		return pluralise(months, "month")
	}
	return pluralise(months/12, "year")
}

func pluralise(d float64, unit string) string {
	n := int(d)
	if n != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}
