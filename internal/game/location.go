// SPDX-License-Identifier: MPL-2.0

package game

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var (
	//nolint:gochecknoglobals // Test seam for os.UserHomeDir().
	userHomeDir = os.UserHomeDir

	//nolint:gochecknoglobals // Test seam for os.UserConfigDir().
	userConfigDir = os.UserConfigDir

	//nolint:gochecknoglobals // Test seam for runtime.GOOS.
	goos = runtime.GOOS
)

// DefaultBase resolves the per-user folder behind a Location.
//
// Documents is ~/Documents on Windows and macOS. On other systems it is
// $XDG_DOCUMENTS_DIR when set, else the home directory. AppData is the
// platform's user config directory.
func DefaultBase(loc Location) (string, error) {
	switch loc {
	case LocationDocuments:
		home, err := userHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving documents folder: %w", err)
		}
		switch goos {
		case "windows", "darwin":
			return filepath.Join(home, "Documents"), nil
		}
		if dir := os.Getenv("XDG_DOCUMENTS_DIR"); dir != "" {
			return dir, nil
		}
		return home, nil
	case LocationAppData:
		dir, err := userConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolving application data folder: %w", err)
		}
		return dir, nil
	default:
		return "", fmt.Errorf("unknown install location %q", loc)
	}
}
