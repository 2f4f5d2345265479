// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	// confirmModel is a yes/no prompt. A lone "y" or "n" answers at once;
	// anything longer is collected until enter. An empty answer takes the
	// current selection, which starts at No.
	confirmModel struct {
		question  string
		typed     strings.Builder
		selection bool
		result    bool
		done      bool
		cancelled bool
	}

	// inputClosedMsg reports that the prompt's input reached EOF.
	inputClosedMsg struct{}

	// eofReader tells the program when its input runs dry. Bubble Tea
	// stops reading on EOF without ending the program.
	eofReader struct {
		r    io.Reader
		send func(tea.Msg)
		once sync.Once
	}
)

func (m *confirmModel) Init() tea.Cmd {
	return nil
}

func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case inputClosedMsg:
		return m.submit()
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.done, m.cancelled = true, true
			return m, tea.Quit
		case "enter", "ctrl+j":
			return m.submit()
		case "left", "right", "tab":
			if m.typed.Len() == 0 {
				m.selection = !m.selection
				return m, nil
			}
		}
		if msg.Type == tea.KeyRunes {
			text := string(msg.Runes)
			if m.typed.Len() == 0 {
				switch strings.ToLower(text) {
				case "y":
					return m.answer(true)
				case "n":
					return m.answer(false)
				}
			}
			m.typed.WriteString(text)
		}
	}
	return m, nil
}

func (m *confirmModel) submit() (tea.Model, tea.Cmd) {
	switch strings.ToLower(strings.TrimSpace(m.typed.String())) {
	case "":
		return m.answer(m.selection)
	case "y", "yes":
		return m.answer(true)
	default:
		return m.answer(false)
	}
}

func (m *confirmModel) answer(yes bool) (tea.Model, tea.Cmd) {
	m.result, m.done = yes, true
	return m, tea.Quit
}

func (m *confirmModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(m.question))
	b.WriteString(" [y/N] ")
	if m.done {
		switch {
		case m.cancelled:
			b.WriteString(SubtitleStyle.Render("cancelled"))
		case m.result:
			b.WriteString(SuccessStyle.Render("yes"))
		default:
			b.WriteString(SubtitleStyle.Render("no"))
		}
		return b.String() + "\n"
	}
	b.WriteString(m.typed.String())
	b.WriteString("\n\n")
	yes, no := SubtitleStyle.Render(" Yes "), CmdStyle.Render("[No]")
	if m.selection {
		yes, no = CmdStyle.Render("[Yes]"), SubtitleStyle.Render(" No ")
	}
	b.WriteString(yes + "  " + no + "\n")
	b.WriteString(SubtitleStyle.Render("enter submit • y yes • n no • esc cancel"))
	return b.String()
}

func (r *eofReader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	if errors.Is(err, io.EOF) {
		if n > 0 {
			// Deliver the bytes first; the next read reports EOF again.
			return n, nil
		}
		r.once.Do(func() { r.send(inputClosedMsg{}) })
	}
	return n, err
}

// confirm asks a yes/no question on w and reads the answer from r. Closing
// the input without an answer declines. Escape or ctrl+c cancels the prompt
// with context.Canceled.
func confirm(ctx context.Context, r io.Reader, w io.Writer, question string) (bool, error) {
	in := &eofReader{r: r}
	p := tea.NewProgram(&confirmModel{question: question},
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(w),
		tea.WithoutSignalHandler(),
	)
	in.send = p.Send

	final, err := p.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return false, ctxErr
	}
	if err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}
	m, ok := final.(*confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.cancelled {
		return false, context.Canceled
	}
	return m.result, nil
}
