// Package version provides format version parsing and compatibility checks
// for files written by this library.
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Current is the snapshot format version written by this library. Readers
// accept any version with the same major number.
const Current = "1.0"

// ErrIncompatible means a file was written with a different major version.
var ErrIncompatible = errors.New("incompatible format version")

// Version represents a parsed "major.minor" format version.
type Version struct {
	Major uint16
	Minor uint16
}

// Parse parses a "major.minor" version string.
func Parse(s string) (Version, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Version{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 16)
	if err != nil || parts[0] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil || parts[1] == "" {
		return Version{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Version{Major: uint16(major), Minor: uint16(minor)}, nil
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Compatible returns true if the other version has the same major version.
func (v Version) Compatible(other Version) bool {
	return v.Major == other.Major
}

// Check parses s and verifies it can be read by this library.
func Check(s string) (Version, error) {
	v, err := Parse(s)
	if err != nil {
		return Version{}, err
	}
	current, _ := Parse(Current)
	if !current.Compatible(v) {
		return v, fmt.Errorf("%w: %s (supported: %d.x)", ErrIncompatible, v, current.Major)
	}
	return v, nil
}
