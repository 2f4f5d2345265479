// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"io/fs"
	"slices"
	"testing"
)

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	exists := func(string) error { return nil }
	missing := func(string) error { return fs.ErrNotExist }
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}

	tests := []struct {
		name string
		env  map[string]string
		stat func(string) error
		want Sandbox
	}{
		{"no sandbox", nil, missing, SandboxNone},
		{"flatpak", nil, exists, SandboxFlatpak},
		{"snap", map[string]string{"SNAP_NAME": "openlauncher"}, missing, SandboxSnap},
		{"flatpak wins over snap", map[string]string{"SNAP_NAME": "openlauncher"}, exists, SandboxFlatpak},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := detectSandboxFrom(env(tt.env), tt.stat); got != tt.want {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSandbox_HostCommand(t *testing.T) {
	t.Parallel()

	name, args := SandboxFlatpak.HostCommand("/games/bin/openrct2", []string{"--verbose"})
	if name != "flatpak-spawn" {
		t.Errorf("flatpak name = %q, want flatpak-spawn", name)
	}
	if want := []string{"--host", "/games/bin/openrct2", "--verbose"}; !slices.Equal(args, want) {
		t.Errorf("flatpak args = %v, want %v", args, want)
	}

	for _, s := range []Sandbox{SandboxNone, SandboxSnap} {
		name, args := s.HostCommand("/games/bin/openrct2", nil)
		if name != "/games/bin/openrct2" || args != nil {
			t.Errorf("%q: got (%q, %v), want the command unchanged", s, name, args)
		}
	}
}

func TestStatFile(t *testing.T) {
	t.Parallel()

	if err := statFile(t.TempDir()); err != nil {
		t.Errorf("statFile(existing) = %v", err)
	}
	if err := statFile(t.TempDir() + "/missing"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("statFile(missing) = %v, want ErrNotExist", err)
	}
}
