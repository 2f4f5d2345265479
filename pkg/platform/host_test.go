// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestHostFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos, goarch string
		want         Host
	}{
		{"linux", "amd64", Host{PlatformLinux, ArchX64}},
		{"windows", "386", Host{PlatformWindows, ArchX86}},
		{"darwin", "arm64", Host{PlatformMacOS, ArchArm64}},
		{"linux", "arm", Host{PlatformLinux, ArchArm}},
		{"freebsd", "riscv64", Host{PlatformUnknown, ArchUnknown}},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.goarch, func(t *testing.T) {
			t.Parallel()
			if got := HostFor(tt.goos, tt.goarch); got != tt.want {
				t.Errorf("HostFor(%q, %q) = %v, want %v", tt.goos, tt.goarch, got, tt.want)
			}
		})
	}
}

func TestHost_ExecutableName(t *testing.T) {
	t.Parallel()

	if got := HostFor(Windows, "amd64").ExecutableName("openrct2"); got != "openrct2.exe" {
		t.Errorf("windows executable = %q, want %q", got, "openrct2.exe")
	}
	if got := HostFor(Linux, "amd64").ExecutableName("openrct2"); got != "openrct2" {
		t.Errorf("linux executable = %q, want %q", got, "openrct2")
	}
}

func TestHost_String(t *testing.T) {
	t.Parallel()

	if got := HostFor(Darwin, "arm64").String(); got != "macos/arm64" {
		t.Errorf("String() = %q, want %q", got, "macos/arm64")
	}
}
