// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"testing"
)

// Setenv sets key for the rest of the test and restores the previous state
// on cleanup. Unlike t.Setenv it works from helpers shared with benchmarks.
func Setenv(t testing.TB, key, value string) {
	t.Helper()
	remember(t, key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("set %s: %v", key, err)
	}
}

// Unsetenv removes key for the rest of the test.
func Unsetenv(t testing.TB, key string) {
	t.Helper()
	remember(t, key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset %s: %v", key, err)
	}
}

func remember(t testing.TB, key string) {
	prev, had := os.LookupEnv(key)
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

// ReadString returns the contents of path as a string.
func ReadString(t testing.TB, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}
