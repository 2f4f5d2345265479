// SPDX-License-Identifier: MPL-2.0

package catalog

import (
	"strconv"
	"strings"
)

// maxVersionParts caps the dotted components accepted by ParseVersion.
const maxVersionParts = 4

// Version is a dotted numeric version such as 22.05.1. Leading zeros in a
// component are allowed, which rules out strict semver parsing of tags
// like "v22.05.1".
type Version []int

// ParseVersion parses a tag of one to four dot-separated non-negative
// integers with an optional leading "v". Anything else reports false, and
// callers treat such versions as not comparable.
func ParseVersion(tag string) (Version, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(tag), "v")
	if s == "" {
		return nil, false
	}
	fields := strings.Split(s, ".")
	if len(fields) > maxVersionParts {
		return nil, false
	}
	v := make(Version, len(fields))
	for i, f := range fields {
		if f == "" || strings.ContainsAny(f, "+-") {
			return nil, false
		}
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, false
		}
		v[i] = n
	}
	return v, true
}

// Compare returns -1, 0 or +1. Missing trailing components count as zero,
// so 1.2 equals 1.2.0.
func (v Version) Compare(other Version) int {
	n := max(len(v), len(other))
	for i := range n {
		a, b := v.at(i), other.at(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// String renders the version without a "v" prefix.
func (v Version) String() string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

func (v Version) at(i int) int {
	if i < len(v) {
		return v[i]
	}
	return 0
}

// IsNewer reports whether candidate is a strictly newer version than
// current. Tags that do not parse are not comparable and yield false.
func IsNewer(candidate, current string) bool {
	c, ok := ParseVersion(candidate)
	if !ok {
		return false
	}
	cur, ok := ParseVersion(current)
	if !ok {
		return false
	}
	return c.Compare(cur) > 0
}
