// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

type (
	// ActionableError is a user-facing error: what was attempted, on what,
	// why it failed, and what to try next. Issue optionally points at a
	// longer issue page.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("install OpenRCT2 v0.4.12").
	//		WithResource(binDir).
	//		WithIssue(issue.ExtractionAccessDeniedId).
	//		WithSuggestion("Close the game and retry").
	//		Wrap(cause).
	//		BuildError()
	ActionableError struct {
		Operation   string
		Resource    string
		Suggestions []string
		Issue       Id
		Cause       error
	}

	// ErrorContext builds an ActionableError step by step. A context can be
	// reused; every Build returns an independent error.
	ErrorContext struct {
		draft ActionableError
	}
)

// NewErrorContext creates an empty builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *ActionableError) Unwrap() error { return e.Cause }

// Format renders the message followed by bulleted suggestions. Verbose
// output appends every error of the unwrapped chain, numbered from the
// cause down.
func (e *ActionableError) Format(verbose bool) string {
	var b strings.Builder
	b.WriteString(e.Error())

	if e.HasSuggestions() {
		b.WriteString("\n")
		for _, s := range e.Suggestions {
			b.WriteString("\n  • " + s)
		}
	}

	if !verbose || e.Cause == nil {
		return b.String()
	}
	b.WriteString("\n\nError chain:")
	n := 0
	for err := e.Cause; err != nil; err = errors.Unwrap(err) {
		n++
		fmt.Fprintf(&b, "\n  %d. %v", n, err)
	}
	return b.String()
}

// HasSuggestions reports whether any suggestion is attached.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) != 0
}

// Page returns the issue page linked to the error, or nil.
func (e *ActionableError) Page() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}

// WithOperation sets the operation, a verb phrase such as "install OpenLoco".
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.draft.Operation = op
	return c
}

// WithResource sets the file, folder or URL involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.draft.Resource = res
	return c
}

func (c *ErrorContext) WithSuggestion(s string) *ErrorContext {
	return c.WithSuggestions(s)
}

func (c *ErrorContext) WithSuggestions(s ...string) *ErrorContext {
	c.draft.Suggestions = append(c.draft.Suggestions, s...)
	return c
}

// WithIssue links an issue page.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.draft.Issue = id
	return c
}

// Wrap sets the cause, replacing any earlier one.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.draft.Cause = err
	return c
}

// Build returns the error, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.draft.Operation == "" {
		return nil
	}
	ae := c.draft
	ae.Suggestions = slices.Clone(c.draft.Suggestions)
	return &ae
}

// BuildError is Build returning the error interface, so a missing
// operation yields a nil error rather than a typed nil.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
