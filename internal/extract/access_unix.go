// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package extract

import (
	"errors"

	"golang.org/x/sys/unix"
)

func isFileLocked(err error) bool {
	return errors.Is(err, unix.ETXTBSY) || errors.Is(err, unix.EBUSY)
}
