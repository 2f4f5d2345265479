// SPDX-License-Identifier: MPL-2.0

package extract

import (
	"errors"
	"io/fs"
)

// IsAccessDenied reports whether err means a file in the install directory
// could not be replaced, typically because the game is still running.
func IsAccessDenied(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, fs.ErrPermission) || isFileLocked(err)
}
