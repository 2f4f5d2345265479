// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "launch OpenLoco"},
			expected: "failed to launch OpenLoco",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "install OpenRCT2", Resource: "/games/OpenRCT2/bin"},
			expected: "failed to install OpenRCT2: /games/OpenRCT2/bin",
		},
		{
			name:     "operation with cause",
			err:      &ActionableError{Operation: "list builds", Cause: errors.New("connection refused")},
			expected: "failed to list builds: connection refused",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "install OpenRCT2",
				Resource:  "/games/OpenRCT2/bin",
				Cause:     errors.New("file locked"),
			},
			expected: "failed to install OpenRCT2: /games/OpenRCT2/bin: file locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying error")
	err := &ActionableError{Operation: "test", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if (&ActionableError{Operation: "test"}).Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name:     "simple error non-verbose",
			err:      &ActionableError{Operation: "load config"},
			contains: []string{"failed to load config"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "install OpenLoco",
				Resource:    "/games/OpenLoco/bin",
				Suggestions: []string{"Close the game", "Retry the install"},
			},
			contains: []string{
				"failed to install OpenLoco",
				"/games/OpenLoco/bin",
				"• Close the game",
				"• Retry the install",
			},
		},
		{
			name:     "no error chain in non-verbose",
			err:      &ActionableError{Operation: "parse config", Cause: errors.New("syntax error")},
			contains: []string{"failed to parse config: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "update launcher",
				Cause: &ActionableError{
					Operation: "download release",
					Cause:     errors.New("timeout"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to download release: timeout",
				"2. timeout",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.err.Format(tt.verbose)
			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("some/path").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	err := NewErrorContext().
		WithOperation("install OpenRCT2").
		WithResource("/games/OpenRCT2/bin").
		WithIssue(ExtractionAccessDeniedId).
		WithSuggestion("Close the game").
		WithSuggestions("Retry", "Reboot").
		Wrap(errors.New("locked")).
		Build()

	if err.Operation != "install OpenRCT2" || err.Resource != "/games/OpenRCT2/bin" {
		t.Errorf("Build() = %+v", err)
	}
	if len(err.Suggestions) != 3 || !err.HasSuggestions() {
		t.Errorf("Suggestions = %v, want 3", err.Suggestions)
	}
	if err.Cause == nil || err.Cause.Error() != "locked" {
		t.Errorf("Cause = %v", err.Cause)
	}
	if page := err.Page(); page == nil || page.Id() != ExtractionAccessDeniedId {
		t.Errorf("Page() = %v, want the access denied page", page)
	}

	var ae *ActionableError
	if !errors.As(NewErrorContext().WithOperation("x").BuildError(), &ae) {
		t.Error("BuildError() should return *ActionableError")
	}
}

func TestActionableError_PageUnset(t *testing.T) {
	t.Parallel()

	if (&ActionableError{Operation: "x"}).Page() != nil {
		t.Error("Page() without issue should be nil")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	t.Parallel()

	ctx := NewErrorContext().
		WithOperation("install OpenLoco").
		WithSuggestion("Retry")

	err1 := ctx.Wrap(errors.New("error 1")).Build()
	err2 := ctx.Wrap(errors.New("error 2")).Build()

	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("Reused context should allow different causes")
	}
	if err1.Operation != err2.Operation {
		t.Error("Reused context should preserve operation")
	}

	err1.Suggestions[0] = "changed"
	if err2.Suggestions[0] != "Retry" {
		t.Error("errors built from one context should not share suggestions")
	}
}
