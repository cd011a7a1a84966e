// Package semver implements the version-range grammar used by dependency
// declarations (original spec §4.6, §8): "*", "N", "N.M", or "N.M.P", where
// a partial version means "this component and any later patch/minor within
// it". It wraps coreos/go-semver's Version for parsing and comparison.
package semver

import (
	"fmt"
	"strconv"
	"strings"

	gosemver "github.com/coreos/go-semver/semver"
)

// Range is a parsed version predicate: either "any version" or a half-open
// interval [Min, Max).
type Range struct {
	any bool
	min gosemver.Version
	max gosemver.Version
}

// ParseRange parses a requested range string. An empty string is treated as
// "*" (matches anything), per original §3's "default `*`".
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return Range{any: true}, nil
	}

	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return Range{}, fmt.Errorf("invalid version range %q: too many components", s)
	}

	nums := make([]int64, 3)
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return Range{}, fmt.Errorf("invalid version range %q: component %q is not a non-negative integer", s, p)
		}
		nums[i] = n
	}

	min := gosemver.Version{Major: nums[0], Minor: 0, Patch: 0}
	max := gosemver.Version{}
	switch len(parts) {
	case 1:
		min = gosemver.Version{Major: nums[0]}
		max = gosemver.Version{Major: nums[0] + 1}
	case 2:
		min = gosemver.Version{Major: nums[0], Minor: nums[1]}
		max = gosemver.Version{Major: nums[0], Minor: nums[1] + 1}
	case 3:
		min = gosemver.Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}
		max = gosemver.Version{Major: nums[0], Minor: nums[1], Patch: nums[2] + 1}
	}

	return Range{min: min, max: max}, nil
}

// Parse parses a single concrete version string (not a range). Missing
// trailing components default to zero, matching ParseRange's grammar.
func Parse(s string) (gosemver.Version, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return gosemver.Version{}, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return gosemver.Version{}, fmt.Errorf("invalid version %q: too many components", s)
	}
	nums := make([]int64, 3)
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return gosemver.Version{}, fmt.Errorf("invalid version %q: component %q is not a non-negative integer", s, p)
		}
		nums[i] = n
	}
	return gosemver.Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// Matches reports whether v falls within the range.
func (r Range) Matches(v gosemver.Version) bool {
	if r.any {
		return true
	}
	return !v.LessThan(r.min) && v.LessThan(r.max)
}

// String renders the range as its interval, ">=MIN, <MAX", or "*" for the
// wildcard; the original "N"/"N.M"/"N.M.P" spelling is not kept.
func (r Range) String() string {
	if r.any {
		return "*"
	}
	return fmt.Sprintf(">=%s, <%s", r.min.String(), r.max.String())
}

// Match is a convenience wrapper combining ParseRange and Matches, used by
// the dependency resolver's compatibility check (original §4.6).
func Match(requestedRange string, resolved string) (bool, error) {
	r, err := ParseRange(requestedRange)
	if err != nil {
		return false, err
	}
	v, err := Parse(resolved)
	if err != nil {
		return false, err
	}
	return r.Matches(v), nil
}
