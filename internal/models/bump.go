package models

import (
	"fmt"
)

// BumpType represents the type of version bump
type BumpType string

const (
	BumpPatch BumpType = "patch"
	BumpMinor BumpType = "minor"
	BumpMajor BumpType = "major"
)

// IsValid checks if the bump type is valid
func (b BumpType) IsValid() bool {
	switch b {
	case BumpPatch, BumpMinor, BumpMajor:
		return true
	default:
		return false
	}
}

// String returns the string representation of BumpType
func (b BumpType) String() string {
	return string(b)
}

// ParseBumpType parses a string into a BumpType. An empty string selects patch.
func ParseBumpType(s string) (BumpType, error) {
	if s == "" {
		return BumpPatch, nil
	}
	bt := BumpType(s)
	if !bt.IsValid() {
		return "", fmt.Errorf("invalid bump type: %s (must be patch, minor, or major)", s)
	}
	return bt, nil
}
