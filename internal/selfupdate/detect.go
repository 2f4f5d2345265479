// SPDX-License-Identifier: MPL-2.0

package selfupdate

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/openlauncher/openlauncher/pkg/platform"
)

const (
	// homebrewMacARM is the Homebrew prefix on macOS ARM (Apple Silicon).
	homebrewMacARM = "/opt/homebrew/"

	// homebrewMacIntel is the Homebrew Cellar path on macOS Intel.
	homebrewMacIntel = "/usr/local/Cellar/"

	// homebrewLinux is the Linuxbrew prefix.
	homebrewLinux = "/home/linuxbrew/.linuxbrew/"

	// modulePath is the Go module path used to confirm go-install origin.
	modulePath = "github.com/openlauncher/openlauncher"

	// InstallMethodPortable is a downloaded binary the launcher manages
	// itself. It is the only method ApplyUpdate serves.
	InstallMethodPortable InstallMethod = iota
	// InstallMethodHomebrew is a `brew install`.
	InstallMethodHomebrew
	// InstallMethodGoInstall is a `go install`.
	InstallMethodGoInstall
	// InstallMethodFlatpak is a Flatpak bundle; its files are read-only.
	InstallMethodFlatpak
	// InstallMethodSnap is a Snap package; its files are read-only.
	InstallMethodSnap
)

var (
	// installMethodHint is set via -ldflags at build time to override detection.
	//
	//nolint:gochecknoglobals // Build-time ldflags injection requires a package-level variable.
	installMethodHint string

	//nolint:gochecknoglobals // Test seam for debug.ReadBuildInfo.
	readBuildInfo = debug.ReadBuildInfo

	//nolint:gochecknoglobals // Test seam for sandbox detection.
	detectSandbox = platform.DetectSandbox
)

// InstallMethod identifies how the launcher was installed.
type InstallMethod int

func (m InstallMethod) String() string {
	switch m {
	case InstallMethodPortable:
		return "portable"
	case InstallMethodHomebrew:
		return "homebrew"
	case InstallMethodGoInstall:
		return "goinstall"
	case InstallMethodFlatpak:
		return "flatpak"
	case InstallMethodSnap:
		return "snap"
	}
	return "portable"
}

// IsManaged reports whether another tool owns the launcher binary.
func (m InstallMethod) IsManaged() bool {
	return m != InstallMethodPortable
}

// UpgradeCommand is the command that upgrades a managed install, or "" for
// a portable one.
func (m InstallMethod) UpgradeCommand() string {
	switch m {
	case InstallMethodHomebrew:
		return "brew upgrade openlauncher"
	case InstallMethodGoInstall:
		return "go install " + modulePath + "@latest"
	case InstallMethodFlatpak:
		return "flatpak update"
	case InstallMethodSnap:
		return "snap refresh openlauncher"
	case InstallMethodPortable:
	}
	return ""
}

// ManagedInstallMessage explains how to upgrade a managed install.
func ManagedInstallMessage(method InstallMethod, execPath string) string {
	if !method.IsManaged() {
		return ""
	}
	return fmt.Sprintf("Detected %s installation at %s\n\nTo upgrade, run:\n  %s", method, execPath, method.UpgradeCommand())
}

// DetectInstallMethod determines how the launcher at execPath was installed.
// Detection priority:
//  1. Build-time ldflags hint
//  2. Flatpak or Snap sandbox
//  3. Homebrew prefixes
//  4. GOPATH/bin confirmed by the build info module path
//  5. Portable
func DetectInstallMethod(execPath string) InstallMethod {
	if installMethodHint != "" {
		return parseMethodHint(installMethodHint)
	}

	switch detectSandbox() {
	case platform.SandboxFlatpak:
		return InstallMethodFlatpak
	case platform.SandboxSnap:
		return InstallMethodSnap
	case platform.SandboxNone:
	}

	if strings.Contains(execPath, homebrewMacARM) ||
		strings.Contains(execPath, homebrewMacIntel) ||
		strings.Contains(execPath, homebrewLinux) {
		return InstallMethodHomebrew
	}

	// Both conditions are required: a binary copied into GOPATH/bin by hand
	// is still portable.
	if isInGOPATHBin(execPath) && hasModulePath() {
		return InstallMethodGoInstall
	}

	return InstallMethodPortable
}

func parseMethodHint(hint string) InstallMethod {
	switch strings.ToLower(hint) {
	case "homebrew":
		return InstallMethodHomebrew
	case "goinstall":
		return InstallMethodGoInstall
	case "flatpak":
		return InstallMethodFlatpak
	case "snap":
		return InstallMethodSnap
	default:
		return InstallMethodPortable
	}
}

// isInGOPATHBin checks whether execPath is inside $GOPATH/bin, falling back
// to ~/go when GOPATH is unset.
func isInGOPATHBin(execPath string) bool {
	gopath := os.Getenv("GOPATH")
	if gopath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		gopath = filepath.Join(home, "go")
	}

	gopathBin := filepath.Clean(filepath.Join(gopath, "bin"))
	cleanExec := filepath.Clean(execPath)

	return strings.HasPrefix(cleanExec, gopathBin+string(filepath.Separator)) ||
		cleanExec == gopathBin
}

func hasModulePath() bool {
	info, ok := readBuildInfo()
	if !ok || info == nil {
		return false
	}
	return strings.HasPrefix(info.Path, modulePath)
}
