// SPDX-License-Identifier: MPL-2.0

package asset

import (
	"strings"

	"github.com/openlauncher/openlauncher/pkg/platform"
)

const (
	// KindUnknown is any file the extractor cannot materialize.
	KindUnknown Kind = iota
	// KindZip is a zip archive.
	KindZip
	// KindAppImage is a single self-contained Linux executable.
	KindAppImage
	// KindTarGz is a gzip-compressed tarball.
	KindTarGz
)

type (
	// Kind is the archive format of a downloadable file.
	Kind int

	// Asset is one downloadable file attached to a release.
	Asset struct {
		Name        string
		URI         string
		ContentType string
		Size        int64
	}

	// Classification holds every property derived from an asset file name.
	Classification struct {
		Platform platform.Platform
		Arch     platform.Arch
		Kind     Kind
		Portable bool
		AppImage bool
	}
)

// String returns the conventional file suffix of the kind, without the dot.
func (k Kind) String() string {
	switch k {
	case KindZip:
		return "zip"
	case KindAppImage:
		return "AppImage"
	case KindTarGz:
		return "tar.gz"
	case KindUnknown:
		return "unknown"
	}
	return "unknown"
}

// Classify derives platform, architecture, archive kind and portability from
// a file name. It is case-insensitive and deterministic.
func Classify(name string) Classification {
	lower := strings.ToLower(name)
	return Classification{
		Platform: firstMatch(platformRules, lower, platform.PlatformUnknown),
		Arch:     firstMatch(archRules, lower, platform.ArchUnknown),
		Kind:     KindOf(name),
		Portable: !containsAny(lower, nonPortableTokens),
		AppImage: strings.Contains(lower, appImageToken),
	}
}

// KindOf returns the archive kind implied by the suffix of name.
func KindOf(name string) Kind {
	lower := strings.ToLower(name)
	for _, r := range kindRules {
		if strings.HasSuffix(lower, r.suffix) {
			return r.kind
		}
	}
	return KindUnknown
}

// String returns the asset name.
func (a Asset) String() string { return a.Name }

// Platform returns the operating system the asset targets.
func (a Asset) Platform() platform.Platform { return Classify(a.Name).Platform }

// Arch returns the CPU architecture the asset targets.
func (a Asset) Arch() platform.Arch { return Classify(a.Name).Arch }

// Kind returns the archive format implied by the asset name.
func (a Asset) Kind() Kind { return KindOf(a.Name) }

// IsPortable reports whether the asset can be unpacked into a plain directory
// (not an installer, symbol bundle or Windows executable).
func (a Asset) IsPortable() bool { return Classify(a.Name).Portable }

// IsAppImage reports whether the asset is an AppImage.
func (a Asset) IsAppImage() bool { return Classify(a.Name).AppImage }

// IsApplicableToHost reports whether the asset can run on host. An asset
// with no platform or architecture token matches any host. A 64-bit x86
// host also accepts 32-bit x86 builds, and an arm64 host accepts arm builds.
func (a Asset) IsApplicableToHost(host platform.Host) bool {
	c := Classify(a.Name)
	if c.Platform != platform.PlatformUnknown && c.Platform != host.Platform {
		return false
	}
	if c.Arch == platform.ArchUnknown || c.Arch == host.Arch {
		return true
	}
	switch {
	case host.Arch == platform.ArchX64 && c.Arch == platform.ArchX86:
		return true
	case host.Arch == platform.ArchArm64 && c.Arch == platform.ArchArm:
		return true
	default:
		return false
	}
}
