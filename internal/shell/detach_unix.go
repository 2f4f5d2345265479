// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package shell

import (
	"errors"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setDetached starts the child in a new process group so terminal signals
// sent to the launcher do not reach it.
func setDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
