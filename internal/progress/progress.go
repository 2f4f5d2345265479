// SPDX-License-Identifier: MPL-2.0

// Package progress carries one-way progress reports from the engines to
// whatever front-end observes them. Delivery happens on the caller's
// goroutine; marshalling onto a UI thread is the observer's job.
package progress

import "fmt"

const (
	// StatusDownloading is reported while an asset streams to disk.
	StatusDownloading = "Downloading"
	// StatusExtracting marks the switch from download to install; it is
	// reported once with a full bar because the later phases are coarse.
	StatusExtracting = "Extracting"
)

type (
	// Report is one progress update. When Indeterminate is set the total is
	// unknown and Fraction carries no meaning.
	Report struct {
		Status        string
		Fraction      float64
		Indeterminate bool
	}

	// Sink receives progress reports.
	Sink interface {
		Report(Report)
	}

	// SinkFunc adapts a plain function to Sink.
	SinkFunc func(Report)

	discard struct{}
)

// Discard drops every report.
var Discard Sink = discard{}

// Report calls f(r).
func (f SinkFunc) Report(r Report) { f(r) }

func (discard) Report(Report) {}

// Fraction builds a determinate report.
func Fraction(status string, fraction float64) Report {
	return Report{Status: status, Fraction: fraction}
}

// Unknown builds an indeterminate report.
func Unknown(status string) Report {
	return Report{Status: status, Indeterminate: true}
}

// String renders the report for logs, e.g. "Downloading 42%".
func (r Report) String() string {
	if r.Indeterminate {
		return r.Status + " ..."
	}
	return fmt.Sprintf("%s %d%%", r.Status, int(r.Fraction*100))
}

// OrDiscard returns s, or Discard when s is nil.
func OrDiscard(s Sink) Sink {
	if s == nil {
		return Discard
	}
	return s
}
