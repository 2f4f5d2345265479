// SPDX-License-Identifier: MPL-2.0

package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestReport_String(t *testing.T) {
	t.Parallel()

	if got := Fraction(StatusDownloading, 0.425).String(); got != "Downloading 42%" {
		t.Errorf("String() = %q", got)
	}
	if got := Unknown(StatusDownloading).String(); got != "Downloading ..." {
		t.Errorf("String() = %q", got)
	}
}

func TestSinkFunc(t *testing.T) {
	t.Parallel()

	var got []Report
	var s Sink = SinkFunc(func(r Report) { got = append(got, r) })
	s.Report(Fraction(StatusExtracting, 1))

	if len(got) != 1 || got[0].Status != StatusExtracting || got[0].Fraction != 1 {
		t.Errorf("recorded %+v", got)
	}
}

func TestOrDiscard(t *testing.T) {
	t.Parallel()

	if OrDiscard(nil) != Discard {
		t.Error("OrDiscard(nil) should return Discard")
	}
	// Must not panic.
	OrDiscard(nil).Report(Unknown("x"))
}

func TestBar(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	bar := NewBar(&buf)
	bar.Report(Fraction(StatusDownloading, 0))
	bar.Report(Unknown(StatusDownloading))
	bar.Report(Fraction(StatusExtracting, 1))
	bar.Done()

	out := buf.String()
	if !strings.Contains(out, StatusDownloading) || !strings.Contains(out, StatusExtracting) {
		t.Errorf("bar output missing statuses: %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("expected one line per phase, got %q", out)
	}
	if !strings.Contains(out, "100%") {
		t.Errorf("expected a full bar for the extracting phase: %q", out)
	}
}
