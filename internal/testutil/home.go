// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// UserDirs are the per-test folders IsolateUserDirs points the environment at.
type UserDirs struct {
	Home      string
	Config    string
	Documents string
}

// IsolateUserDirs points the home, config and documents locations at fresh
// folders under root so a test cannot touch the real user's files. Tests
// calling it must not run in parallel.
func IsolateUserDirs(t testing.TB, root string) UserDirs {
	t.Helper()

	dirs := UserDirs{
		Home:      filepath.Join(root, "home"),
		Config:    filepath.Join(root, "config"),
		Documents: filepath.Join(root, "documents"),
	}

	if runtime.GOOS == "windows" {
		Setenv(t, "USERPROFILE", dirs.Home)
	} else {
		Setenv(t, "HOME", dirs.Home)
	}
	Setenv(t, "XDG_CONFIG_HOME", dirs.Config)
	Setenv(t, "APPDATA", dirs.Config)
	Setenv(t, "XDG_DOCUMENTS_DIR", dirs.Documents)
	return dirs
}
