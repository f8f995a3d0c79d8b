package models

import "errors"

// Sentinel errors returned by detection, manifest adapters and the release
// pipeline. Callers match them with errors.Is; every error in the chain is
// wrapped with fmt.Errorf("...: %w").
var (
	// ErrNoProjectDetected is returned when a directory holds no known manifest.
	ErrNoProjectDetected = errors.New("no supported project detected")

	// ErrAmbiguousProject is returned when several manifests are present and
	// none of them could be used. A plain tie is resolved by priority instead.
	ErrAmbiguousProject = errors.New("ambiguous project")

	// ErrInvalidVersionFormat is returned for text that is not [v]MAJOR.MINOR.PATCH[-PRE][+BUILD].
	ErrInvalidVersionFormat = errors.New("invalid version format")

	// ErrVersionFieldNotFound is returned when the manifest has no version field.
	ErrVersionFieldNotFound = errors.New("version field not found")

	// ErrManifestParse is returned when a manifest is not valid in its format.
	ErrManifestParse = errors.New("manifest parse error")

	// ErrVersionNotHigher is returned by set when the target does not exceed the current version.
	ErrVersionNotHigher = errors.New("version is not higher than current version")

	// ErrTagAlreadyExists is returned when the release tag exists and may not be replaced.
	ErrTagAlreadyExists = errors.New("tag already exists")
)
