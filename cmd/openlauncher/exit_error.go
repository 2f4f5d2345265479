// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/openlauncher/openlauncher/pkg/types"
)

// ExitError carries a process exit code out of a RunE handler.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

// Error returns the wrapped message, or the exit status when there is none.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}
