// Package manifest reads and rewrites the version of a project in the
// manifest format of its ecosystem.
//
// Every adapter implements the same contract. GetVersion reads the
// authoritative version; Edits computes the new content of every file that
// carries the version without writing anything. Edits only ever replace the
// bytes of a version literal so comments, key order and quoting survive.
package manifest

import (
	"fmt"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

// Adapter reads and rewrites the version field(s) of one project kind.
type Adapter interface {
	Kind() models.ProjectKind

	// PrimaryFile is the file holding the authoritative version.
	PrimaryFile() string

	// SatelliteFiles are the other files kept in sync with PrimaryFile.
	SatelliteFiles() []string

	// GetVersion reads the current version.
	GetVersion() (*models.Version, error)

	// Edits computes the content of every file that needs to change to carry
	// newVersion. Nothing is written.
	Edits(newVersion *models.Version) ([]Edit, error)
}

// Named is implemented by adapters whose manifest declares a project name.
type Named interface {
	Name() (string, error)
}

// ProjectName returns the declared name of the project, or fallback.
func ProjectName(a Adapter, fallback string) string {
	if named, ok := a.(Named); ok {
		if name, err := named.Name(); err == nil && name != "" {
			return name
		}
	}
	return fallback
}

// Change is one rewritten version literal inside a file.
type Change struct {
	// Field names the location, e.g. "[package].version" or "Version".
	Field    string
	OldValue string
	NewValue string
}

// Edit is the before/after image of a single file.
type Edit struct {
	Path    string
	Before  []byte
	After   []byte
	Changes []Change
}

// New returns the adapter for a detected project.
func New(fs filesystem.FileSystem, project *models.DetectedProject) (Adapter, error) {
	switch project.Kind {
	case models.KindNodePackage:
		return NewNodePackage(fs, project.PrimaryManifestPath), nil
	case models.KindPythonProject:
		return NewPythonProject(fs, project.PrimaryManifestPath), nil
	case models.KindRustCrate:
		return NewRustCrate(fs, project.PrimaryManifestPath), nil
	case models.KindRustWorkspaceMember:
		return NewRustWorkspaceMember(fs, project.PrimaryManifestPath, project.MemberManifestPath), nil
	case models.KindGoModule:
		return NewGoModule(fs, project.PrimaryManifestPath), nil
	case models.KindRubyGem:
		return NewRubyGem(fs, project.PrimaryManifestPath), nil
	case models.KindHelmChart:
		return NewHelmChart(fs, project.PrimaryManifestPath), nil
	default:
		return nil, fmt.Errorf("no manifest adapter for project kind %q", project.Kind)
	}
}

func readFile(fs filesystem.FileSystem, path string) ([]byte, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func parseFieldVersion(path, field, raw string) (*models.Version, error) {
	v, err := models.ParseVersion(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s in %s: %w", field, path, err)
	}
	return v, nil
}

var (
	_ Adapter = (*NodePackage)(nil)
	_ Adapter = (*PythonProject)(nil)
	_ Adapter = (*RustCrate)(nil)
	_ Adapter = (*RustWorkspaceMember)(nil)
	_ Adapter = (*GoModule)(nil)
	_ Adapter = (*RubyGem)(nil)
	_ Adapter = (*HelmChart)(nil)
)
