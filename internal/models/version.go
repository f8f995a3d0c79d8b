package models

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version represents a semantic version
type Version struct {
	Major      uint64
	Minor      uint64
	Patch      uint64
	Prerelease string // e.g., "rc.1", "beta"
	Metadata   string // build metadata after '+'

	// VPrefix records whether the parsed text carried a leading 'v'. It does
	// not take part in comparison.
	VPrefix bool
}

// ParseVersion parses a version string (e.g., "1.2.3", "v1.2.3", "1.2.3-rc.1+build.5")
func ParseVersion(s string) (*Version, error) {
	s = strings.TrimSpace(s)

	hasV := strings.HasPrefix(s, "v")
	sv, err := semver.StrictNewVersion(strings.TrimPrefix(s, "v"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q (expected [v]MAJOR.MINOR.PATCH[-PRERELEASE][+BUILD]): %v", ErrInvalidVersionFormat, s, err)
	}

	return &Version{
		Major:      sv.Major(),
		Minor:      sv.Minor(),
		Patch:      sv.Patch(),
		Prerelease: sv.Prerelease(),
		Metadata:   sv.Metadata(),
		VPrefix:    hasV,
	}, nil
}

// MustParseVersion is ParseVersion for literals known to be valid.
func MustParseVersion(s string) *Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Format renders the version, optionally with a leading 'v'.
func (v *Version) Format(withV bool) string {
	var b strings.Builder
	if withV {
		b.WriteByte('v')
	}
	fmt.Fprintf(&b, "%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		b.WriteByte('-')
		b.WriteString(v.Prerelease)
	}
	if v.Metadata != "" {
		b.WriteByte('+')
		b.WriteString(v.Metadata)
	}
	return b.String()
}

// String returns the version as a string without 'v' prefix
func (v *Version) String() string {
	return v.Format(false)
}

// Tag returns the version as a tag string with 'v' prefix
func (v *Version) Tag() string {
	return v.Format(true)
}

// Literal renders the version in the prefix style it was parsed with.
func (v *Version) Literal() string {
	return v.Format(v.VPrefix)
}

// Bump creates a new version by applying a bump type. Lower fields reset to
// zero and prerelease/build metadata are always cleared.
func (v *Version) Bump(bumpType BumpType) *Version {
	newVersion := &Version{
		Major:   v.Major,
		Minor:   v.Minor,
		Patch:   v.Patch,
		VPrefix: v.VPrefix,
	}

	switch bumpType {
	case BumpMajor:
		newVersion.Major++
		newVersion.Minor = 0
		newVersion.Patch = 0
	case BumpMinor:
		newVersion.Minor++
		newVersion.Patch = 0
	case BumpPatch:
		newVersion.Patch++
	}

	return newVersion
}

// Compare compares two versions using semantic-versioning precedence.
// Returns -1 if v < other, 0 if v == other, 1 if v > other.
// Build metadata and the 'v' prefix are ignored.
func (v *Version) Compare(other *Version) int {
	return v.semver().Compare(other.semver())
}

// Equal reports whether both versions have the same precedence and metadata.
func (v *Version) Equal(other *Version) bool {
	return v.Compare(other) == 0 && v.Metadata == other.Metadata
}

// WithPrefix returns a copy of v rendered with or without a leading 'v'.
func (v *Version) WithPrefix(withV bool) *Version {
	c := *v
	c.VPrefix = withV
	return &c
}

// IsPrerelease returns true if this version has a prerelease suffix
func (v *Version) IsPrerelease() bool {
	return v.Prerelease != ""
}

func (v *Version) semver() *semver.Version {
	return semver.New(v.Major, v.Minor, v.Patch, v.Prerelease, v.Metadata)
}
