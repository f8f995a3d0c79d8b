package manifest

import (
	"fmt"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

// pythonVersionFields in read precedence. Every field present is rewritten.
var pythonVersionFields = []tomlVersionField{
	{table: []string{"project"}},
	{table: []string{"tool", "poetry"}},
	{table: []string{"tool", "setuptools"}},
}

// PythonProject handles pyproject.toml.
type PythonProject struct {
	fs   filesystem.FileSystem
	path string
}

func NewPythonProject(fs filesystem.FileSystem, path string) *PythonProject {
	return &PythonProject{fs: fs, path: path}
}

func (p *PythonProject) Kind() models.ProjectKind { return models.KindPythonProject }
func (p *PythonProject) PrimaryFile() string      { return p.path }
func (p *PythonProject) SatelliteFiles() []string { return nil }

func (p *PythonProject) GetVersion() (*models.Version, error) {
	data, err := readFile(p.fs, p.path)
	if err != nil {
		return nil, err
	}
	doc, err := decodeTOML(p.path, data)
	if err != nil {
		return nil, err
	}

	for _, f := range pythonVersionFields {
		if raw, ok := lookupString(doc, f.path()...); ok {
			return parseFieldVersion(p.path, f.String(), raw)
		}
	}
	return nil, p.notFound(doc)
}

func (p *PythonProject) Edits(newVersion *models.Version) ([]Edit, error) {
	data, err := readFile(p.fs, p.path)
	if err != nil {
		return nil, err
	}
	doc, err := decodeTOML(p.path, data)
	if err != nil {
		return nil, err
	}

	spans, err := tomlVersionSpans(p.path, data, doc, pythonVersionFields)
	if err != nil {
		return nil, err
	}
	if len(spans) == 0 {
		return nil, p.notFound(doc)
	}

	after, changes := splice(data, spans, newVersion)
	return []Edit{{Path: p.path, Before: data, After: after, Changes: changes}}, nil
}

func (p *PythonProject) notFound(doc map[string]any) error {
	if dynamic, ok := lookup(doc, "project", "dynamic"); ok {
		if list, ok := dynamic.([]any); ok {
			for _, item := range list {
				if item == "version" {
					return fmt.Errorf("%w: %s declares a dynamic version", models.ErrVersionFieldNotFound, p.path)
				}
			}
		}
	}
	return fmt.Errorf("%w: no [project], [tool.poetry] or [tool.setuptools] version in %s",
		models.ErrVersionFieldNotFound, p.path)
}

// Name returns the distribution name.
func (p *PythonProject) Name() (string, error) {
	data, err := readFile(p.fs, p.path)
	if err != nil {
		return "", err
	}
	doc, err := decodeTOML(p.path, data)
	if err != nil {
		return "", err
	}
	if name, ok := lookupString(doc, "project", "name"); ok {
		return name, nil
	}
	name, _ := lookupString(doc, "tool", "poetry", "name")
	return name, nil
}
