// SPDX-License-Identifier: MPL-2.0

// Package types holds small value types shared by the CLI and the engines.
// It imports only the standard library.
package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ExitCode is the status openlauncher ends with.
type ExitCode int

const (
	// ExitOK reports success.
	ExitOK ExitCode = 0
	// ExitFailure reports a user-correctable failure: missing permissions,
	// an unknown game, an unsupported archive.
	ExitFailure ExitCode = 1
	// ExitUnexpected reports transient or unexpected failures such as an
	// unreachable release feed or a failed restore.
	ExitUnexpected ExitCode = 2
	// ExitCancelled follows the shell convention for SIGINT (128 + 2).
	ExitCancelled ExitCode = 130

	maxExitCode ExitCode = 255
)

// ErrInvalidExitCode is returned for codes a process cannot report.
var ErrInvalidExitCode = errors.New("invalid exit code")

// Validate rejects codes outside 0-255.
func (c ExitCode) Validate() error {
	if c < ExitOK || c > maxExitCode {
		return fmt.Errorf("%w: %d is outside 0-%d", ErrInvalidExitCode, c, maxExitCode)
	}
	return nil
}

func (c ExitCode) IsSuccess() bool { return c == ExitOK }

func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
