// SPDX-License-Identifier: MPL-2.0

//go:build windows

package shell

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// setDetached starts the child without a console in its own process group.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.DETACHED_PROCESS,
	}
}

func isCrossDevice(err error) bool {
	return errors.Is(err, windows.ERROR_NOT_SAME_DEVICE)
}
