// SPDX-License-Identifier: MPL-2.0

//go:build windows

package extract

import (
	"errors"

	"golang.org/x/sys/windows"
)

func isFileLocked(err error) bool {
	return errors.Is(err, windows.ERROR_SHARING_VIOLATION) || errors.Is(err, windows.ERROR_LOCK_VIOLATION)
}
