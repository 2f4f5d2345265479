// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"strings"

	"github.com/openlauncher/openlauncher/pkg/platform"
)

type (
	// rule maps a lower-case substring token to a classification value.
	rule[T any] struct {
		token string
		value T
	}

	// kindRule maps a lower-case file-name suffix to an archive kind.
	kindRule struct {
		suffix string
		kind   Kind
	}
)

// platformRules are checked in order. "win" deliberately precedes the
// macOS and Linux tokens, and ".exe" counts as a Windows signal on its own.
var platformRules = []rule[platform.Platform]{
	{"windows", platform.PlatformWindows},
	{"win", platform.PlatformWindows},
	{".exe", platform.PlatformWindows},
	{"macos", platform.PlatformMacOS},
	{"linux", platform.PlatformLinux},
}

// archRules are checked in order; "arm64" must precede "arm" and the x64
// tokens must precede "x86" (which is a prefix of "x86_64").
var archRules = []rule[platform.Arch]{
	{"x64", platform.ArchX64},
	{"x86_64", platform.ArchX64},
	{"x86", platform.ArchX86},
	{"win32", platform.ArchX86},
	{"i686", platform.ArchX86},
	{"arm64", platform.ArchArm64},
	{"arm", platform.ArchArm},
}

// nonPortableTokens mark installers, debug symbols and Windows executables
// that cannot be unpacked into a plain directory.
var nonPortableTokens = []string{"installer", "symbols", "winnt", ".exe"}

const appImageToken = "appimage"

var kindRules = []kindRule{
	{".zip", KindZip},
	{".appimage", KindAppImage},
	{".tar.gz", KindTarGz},
}

// firstMatch returns the value of the first rule whose token occurs in name,
// or fallback when none does. name must already be lower-cased.
func firstMatch[T any](rules []rule[T], name string, fallback T) T {
	for _, r := range rules {
		if strings.Contains(name, r.token) {
			return r.value
		}
	}
	return fallback
}

func containsAny(name string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(name, tok) {
			return true
		}
	}
	return false
}
