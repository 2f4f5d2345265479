// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the caller cancels before the install
	// directory was touched.
	ErrCancelled = errors.New("install cancelled")

	// ErrExtractionAccessDenied is returned when extraction failed because
	// a file in the install directory is locked, usually by a running game.
	ErrExtractionAccessDenied = errors.New("failed to extract: access denied, is the game still running?")

	// ErrInstallFailed wraps any other failure after rollback was attempted.
	ErrInstallFailed = errors.New("install failed")

	// ErrLaunchFailed is returned when the game executable cannot be started.
	ErrLaunchFailed = errors.New("launch failed")

	// ErrIllegalTransition is returned when the engine tries to move between
	// states the transition table does not connect.
	ErrIllegalTransition = errors.New("illegal install state transition")
)

// RestoreError is returned when putting the previous install back failed.
// The install directory is then in an undefined state and takes precedence
// over the original cause, which stays reachable through Unwrap.
type RestoreError struct {
	Cause      error
	RestoreErr error
}

func (e *RestoreError) Error() string {
	return fmt.Sprintf("restoring previous install failed: %v (after: %v)", e.RestoreErr, e.Cause)
}

// Unwrap exposes both the restore failure and the original cause.
func (e *RestoreError) Unwrap() []error {
	return []error{e.RestoreErr, e.Cause}
}
