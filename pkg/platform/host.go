// SPDX-License-Identifier: MPL-2.0

package platform

import "runtime"

// GOOS values the launcher distinguishes.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

const (
	// PlatformUnknown is used when an asset name carries no platform token.
	PlatformUnknown Platform = iota
	// PlatformWindows is Microsoft Windows.
	PlatformWindows
	// PlatformMacOS is Apple macOS.
	PlatformMacOS
	// PlatformLinux is any Linux distribution.
	PlatformLinux
)

const (
	// ArchUnknown is used when an asset name carries no architecture token.
	ArchUnknown Arch = iota
	// ArchX64 is 64-bit x86 (amd64).
	ArchX64
	// ArchX86 is 32-bit x86.
	ArchX86
	// ArchArm64 is 64-bit ARM.
	ArchArm64
	// ArchArm is 32-bit ARM.
	ArchArm
)

type (
	// Platform is an operating system family as it appears in release asset names.
	Platform int

	// Arch is a CPU architecture as it appears in release asset names.
	Arch int

	// Host is the immutable descriptor of the running machine.
	Host struct {
		Platform Platform
		Arch     Arch
	}
)

// String returns the lower-case display name of the platform.
func (p Platform) String() string {
	switch p {
	case PlatformWindows:
		return "windows"
	case PlatformMacOS:
		return "macos"
	case PlatformLinux:
		return "linux"
	case PlatformUnknown:
		return "unknown"
	}
	return "unknown"
}

// String returns the lower-case display name of the architecture.
func (a Arch) String() string {
	switch a {
	case ArchX64:
		return "x64"
	case ArchX86:
		return "x86"
	case ArchArm64:
		return "arm64"
	case ArchArm:
		return "arm"
	case ArchUnknown:
		return "unknown"
	}
	return "unknown"
}

// DetectHost captures the descriptor of the running process.
func DetectHost() Host {
	return HostFor(runtime.GOOS, runtime.GOARCH)
}

// HostFor maps Go's GOOS/GOARCH pair onto a Host.
func HostFor(goos, goarch string) Host {
	return Host{Platform: platformFor(goos), Arch: archFor(goarch)}
}

// String renders the host as "platform/arch".
func (h Host) String() string {
	return h.Platform.String() + "/" + h.Arch.String()
}

// ExecutableName returns the file name of a program binary on this host:
// "<name>.exe" on Windows and the bare name everywhere else.
func (h Host) ExecutableName(name string) string {
	if h.Platform == PlatformWindows {
		return name + ".exe"
	}
	return name
}

func platformFor(goos string) Platform {
	switch goos {
	case Windows:
		return PlatformWindows
	case Darwin:
		return PlatformMacOS
	case Linux:
		return PlatformLinux
	default:
		return PlatformUnknown
	}
}

func archFor(goarch string) Arch {
	switch goarch {
	case "amd64":
		return ArchX64
	case "386":
		return ArchX86
	case "arm64":
		return ArchArm64
	case "arm":
		return ArchArm
	default:
		return ArchUnknown
	}
}
