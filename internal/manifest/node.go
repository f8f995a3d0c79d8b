package manifest

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

// NodePackage handles the top-level "version" of package.json.
type NodePackage struct {
	fs   filesystem.FileSystem
	path string
}

func NewNodePackage(fs filesystem.FileSystem, path string) *NodePackage {
	return &NodePackage{fs: fs, path: path}
}

func (n *NodePackage) Kind() models.ProjectKind { return models.KindNodePackage }
func (n *NodePackage) PrimaryFile() string      { return n.path }
func (n *NodePackage) SatelliteFiles() []string { return nil }

func (n *NodePackage) GetVersion() (*models.Version, error) {
	data, err := readFile(n.fs, n.path)
	if err != nil {
		return nil, err
	}
	result, err := n.versionResult(data)
	if err != nil {
		return nil, err
	}
	return parseFieldVersion(n.path, "version", result.Str)
}

func (n *NodePackage) Edits(newVersion *models.Version) ([]Edit, error) {
	data, err := readFile(n.fs, n.path)
	if err != nil {
		return nil, err
	}
	result, err := n.versionResult(data)
	if err != nil {
		return nil, err
	}

	old := result.Str
	literal := newVersion.Format(len(old) > 0 && old[0] == 'v')

	// sjson rewrites only the raw bytes of the existing value.
	after, err := sjson.SetBytes(append([]byte(nil), data...), "version", literal)
	if err != nil {
		return nil, fmt.Errorf("failed to update version in %s: %w", n.path, err)
	}

	return []Edit{{
		Path:    n.path,
		Before:  data,
		After:   after,
		Changes: []Change{{Field: "version", OldValue: old, NewValue: literal}},
	}}, nil
}

func (n *NodePackage) versionResult(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, fmt.Errorf("%w: %s: invalid JSON", models.ErrManifestParse, n.path)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: %s: top-level value is not an object", models.ErrManifestParse, n.path)
	}

	result := gjson.GetBytes(data, "version")
	if !result.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: no \"version\" in %s", models.ErrVersionFieldNotFound, n.path)
	}
	if result.Type != gjson.String {
		return gjson.Result{}, fmt.Errorf("%w: \"version\" in %s is not a string", models.ErrVersionFieldNotFound, n.path)
	}
	return result, nil
}

// Name returns the package name.
func (n *NodePackage) Name() (string, error) {
	data, err := readFile(n.fs, n.path)
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(data, "name").String(), nil
}
