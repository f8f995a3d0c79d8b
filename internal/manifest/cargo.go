package manifest

import (
	"fmt"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

var (
	cargoPackageVersion   = tomlVersionField{table: []string{"package"}}
	cargoWorkspaceVersion = tomlVersionField{table: []string{"workspace", "package"}}
)

// RustCrate handles a Cargo.toml that owns its version, either under
// [package] or, for a workspace root, under [workspace.package].
type RustCrate struct {
	fs   filesystem.FileSystem
	path string
}

func NewRustCrate(fs filesystem.FileSystem, path string) *RustCrate {
	return &RustCrate{fs: fs, path: path}
}

func (r *RustCrate) Kind() models.ProjectKind { return models.KindRustCrate }
func (r *RustCrate) PrimaryFile() string      { return r.path }
func (r *RustCrate) SatelliteFiles() []string { return nil }

func (r *RustCrate) GetVersion() (*models.Version, error) {
	doc, _, err := r.read()
	if err != nil {
		return nil, err
	}
	field, err := r.field(doc)
	if err != nil {
		return nil, err
	}
	raw, _ := lookupString(doc, field.path()...)
	return parseFieldVersion(r.path, field.String(), raw)
}

func (r *RustCrate) Edits(newVersion *models.Version) ([]Edit, error) {
	doc, data, err := r.read()
	if err != nil {
		return nil, err
	}
	field, err := r.field(doc)
	if err != nil {
		return nil, err
	}
	spans, err := tomlVersionSpans(r.path, data, doc, []tomlVersionField{field})
	if err != nil {
		return nil, err
	}
	after, changes := splice(data, spans, newVersion)
	return []Edit{{Path: r.path, Before: data, After: after, Changes: changes}}, nil
}

func (r *RustCrate) read() (map[string]any, []byte, error) {
	data, err := readFile(r.fs, r.path)
	if err != nil {
		return nil, nil, err
	}
	doc, err := decodeTOML(r.path, data)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

func (r *RustCrate) field(doc map[string]any) (tomlVersionField, error) {
	if _, ok := lookupString(doc, cargoPackageVersion.path()...); ok {
		return cargoPackageVersion, nil
	}
	if _, ok := lookupString(doc, cargoWorkspaceVersion.path()...); ok {
		return cargoWorkspaceVersion, nil
	}
	if inheritsWorkspaceVersion(doc, "package") {
		return tomlVersionField{}, fmt.Errorf("%w: %s inherits its version from a workspace that was not found",
			models.ErrVersionFieldNotFound, r.path)
	}
	return tomlVersionField{}, fmt.Errorf("%w: no [package].version in %s", models.ErrVersionFieldNotFound, r.path)
}

// RustWorkspaceMember handles a crate declaring `version.workspace = true`.
// The version lives in [workspace.package] of the workspace root manifest.
type RustWorkspaceMember struct {
	fs         filesystem.FileSystem
	rootPath   string
	memberPath string
}

func NewRustWorkspaceMember(fs filesystem.FileSystem, rootPath, memberPath string) *RustWorkspaceMember {
	return &RustWorkspaceMember{fs: fs, rootPath: rootPath, memberPath: memberPath}
}

func (r *RustWorkspaceMember) Kind() models.ProjectKind { return models.KindRustWorkspaceMember }
func (r *RustWorkspaceMember) PrimaryFile() string      { return r.rootPath }
func (r *RustWorkspaceMember) SatelliteFiles() []string { return nil }

// MemberFile is the Cargo.toml of the crate the user pointed at.
func (r *RustWorkspaceMember) MemberFile() string { return r.memberPath }

func (r *RustWorkspaceMember) GetVersion() (*models.Version, error) {
	data, err := readFile(r.fs, r.rootPath)
	if err != nil {
		return nil, err
	}
	doc, err := decodeTOML(r.rootPath, data)
	if err != nil {
		return nil, err
	}
	raw, ok := lookupString(doc, cargoWorkspaceVersion.path()...)
	if !ok {
		return nil, fmt.Errorf("%w: no [workspace.package].version in %s", models.ErrVersionFieldNotFound, r.rootPath)
	}
	return parseFieldVersion(r.rootPath, cargoWorkspaceVersion.String(), raw)
}

func (r *RustWorkspaceMember) Edits(newVersion *models.Version) ([]Edit, error) {
	data, err := readFile(r.fs, r.rootPath)
	if err != nil {
		return nil, err
	}
	doc, err := decodeTOML(r.rootPath, data)
	if err != nil {
		return nil, err
	}
	if _, ok := lookupString(doc, cargoWorkspaceVersion.path()...); !ok {
		return nil, fmt.Errorf("%w: no [workspace.package].version in %s", models.ErrVersionFieldNotFound, r.rootPath)
	}
	spans, err := tomlVersionSpans(r.rootPath, data, doc, []tomlVersionField{cargoWorkspaceVersion})
	if err != nil {
		return nil, err
	}
	after, changes := splice(data, spans, newVersion)
	return []Edit{{Path: r.rootPath, Before: data, After: after, Changes: changes}}, nil
}

// Name returns the crate name.
func (r *RustCrate) Name() (string, error) {
	doc, _, err := r.read()
	if err != nil {
		return "", err
	}
	name, _ := lookupString(doc, "package", "name")
	return name, nil
}

// Name returns the member crate name.
func (r *RustWorkspaceMember) Name() (string, error) {
	data, err := readFile(r.fs, r.memberPath)
	if err != nil {
		return "", err
	}
	doc, err := decodeTOML(r.memberPath, data)
	if err != nil {
		return "", err
	}
	name, _ := lookupString(doc, "package", "name")
	return name, nil
}
