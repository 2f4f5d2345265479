// SPDX-License-Identifier: MPL-2.0

package progress

import (
	"fmt"
	"io"
	"sync"

	bprogress "github.com/charmbracelet/bubbles/progress"
)

const barWidth = 40

// Bar is a Sink that redraws a single terminal line with a gradient
// progress bar. It is safe for concurrent use.
type Bar struct {
	mu     sync.Mutex
	out    io.Writer
	model  bprogress.Model
	status string
	drawn  bool
}

// NewBar creates a Bar writing to out.
func NewBar(out io.Writer) *Bar {
	return &Bar{
		out:   out,
		model: bprogress.New(bprogress.WithDefaultGradient(), bprogress.WithWidth(barWidth)),
	}
}

// Report redraws the bar line. A status change starts a new line so the
// previous phase stays visible in scrollback.
func (b *Bar) Report(r Report) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.drawn && r.Status != b.status {
		fmt.Fprintln(b.out)
	}
	b.status = r.Status
	b.drawn = true

	if r.Indeterminate {
		fmt.Fprintf(b.out, "\r%-12s %s", r.Status, "...")
		return
	}
	fmt.Fprintf(b.out, "\r%-12s %s", r.Status, b.model.ViewAs(clamp(r.Fraction)))
}

// Done terminates the bar line.
func (b *Bar) Done() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drawn {
		fmt.Fprintln(b.out)
		b.drawn = false
	}
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
