// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// reservedNames are device names Windows refuses as file names, with or
// without an extension.
var reservedNames = map[string]bool{ //nolint:gochecknoglobals // Fixed lookup table.
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsReservedName reports whether Windows reserves name, ignoring case and
// extension ("nul.txt" is reserved).
func IsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.IndexByte(upper, '.'); idx != -1 {
		upper = upper[:idx]
	}
	return reservedNames[upper]
}

// HasReservedElement reports whether any element of the slash-separated
// path is a reserved name.
func HasReservedElement(path string) bool {
	for elem := range strings.SplitSeq(path, "/") {
		if IsReservedName(elem) {
			return true
		}
	}
	return false
}
