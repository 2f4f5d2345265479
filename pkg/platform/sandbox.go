// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

const (
	// SandboxNone means the launcher runs directly on the host.
	SandboxNone Sandbox = ""
	// SandboxFlatpak means the launcher itself was installed as a Flatpak.
	SandboxFlatpak Sandbox = "flatpak"
	// SandboxSnap means the launcher itself was installed as a Snap.
	SandboxSnap Sandbox = "snap"
)

// detectOnce caches sandbox detection; the answer cannot change while the
// process is alive.
//
// INVARIANT: detectSandboxFrom MUST NOT panic, sync.OnceValue would re-panic
// on every later call.
var detectOnce = sync.OnceValue(func() Sandbox {
	return detectSandboxFrom(os.Getenv, statFile)
})

// Sandbox identifies the application sandbox the launcher is confined in, if any.
type Sandbox string

// DetectSandbox returns the sandbox of the current process (cached).
//
//   - Flatpak: /.flatpak-info exists
//   - Snap: SNAP_NAME is set
func DetectSandbox() Sandbox {
	return detectOnce()
}

// HostCommand rewrites a program invocation so that it runs on the host
// rather than inside the launcher's sandbox. Installed games live in the
// user's own directories and must not inherit the launcher's confinement.
//
// Flatpak routes the call through "flatpak-spawn --host"; Snap and
// unconfined launchers run the program unchanged.
func (s Sandbox) HostCommand(name string, args []string) (string, []string) {
	switch s {
	case SandboxFlatpak:
		wrapped := make([]string, 0, len(args)+2)
		wrapped = append(wrapped, "--host", name)
		wrapped = append(wrapped, args...)
		return "flatpak-spawn", wrapped
	case SandboxNone, SandboxSnap:
		return name, args
	default:
		return name, args
	}
}

// detectSandboxFrom takes its lookups as parameters so tests can inject them
// without touching process-wide state.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) Sandbox {
	// Flatpak takes precedence.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
