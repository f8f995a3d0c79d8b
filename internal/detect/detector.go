// Package detect classifies a directory as one of the supported project
// kinds. Detection only inspects files; it never runs external tools.
package detect

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/manifest"
	"github.com/jakoblorz/project-version/internal/models"
)

const (
	cargoManifest   = "Cargo.toml"
	nodeManifest    = "package.json"
	pythonManifest  = "pyproject.toml"
	goManifest      = "go.mod"
	gemfileManifest = "Gemfile"
	helmManifest    = "Chart.yaml"
)

// Detector finds the project in a directory.
type Detector struct {
	fs     filesystem.FileSystem
	logger *log.Logger
}

// Option configures a Detector.
type Option func(*Detector)

// WithLogger sets the logger used for debug output about candidates.
func WithLogger(l *log.Logger) Option {
	return func(d *Detector) {
		d.logger = l
	}
}

func New(fs filesystem.FileSystem, options ...Option) *Detector {
	d := &Detector{fs: fs, logger: log.Default()}
	for _, option := range options {
		option(d)
	}
	return d
}

// candidate is a project kind whose trigger file is present. err is set when
// its minimal structural parse failed or it carries no usable version.
type candidate struct {
	project *models.DetectedProject
	err     error
}

// Detect returns the highest-priority project found in dir together with
// its manifest adapter.
func (d *Detector) Detect(dir string) (*models.DetectedProject, manifest.Adapter, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	info, err := d.fs.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", models.ErrNoProjectDetected, root, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s is not a directory", models.ErrNoProjectDetected, root)
	}

	candidates, err := d.candidates(root)
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 {
		return nil, nil, fmt.Errorf("%w in %s", models.ErrNoProjectDetected, root)
	}

	var winner *models.DetectedProject
	var failures []error
	for _, c := range candidates {
		if c.err != nil {
			d.logger.Debug("skipping candidate", "kind", c.project.Kind, "manifest", c.project.PrimaryManifestPath, "err", c.err)
			failures = append(failures, c.err)
			continue
		}
		if winner == nil {
			winner = c.project
			continue
		}
		d.logger.Debug("ignoring lower-priority candidate", "kind", c.project.Kind, "selected", winner.Kind)
	}

	if winner == nil {
		if len(failures) == 1 {
			return nil, nil, failures[0]
		}
		return nil, nil, fmt.Errorf("%w: every candidate in %s failed: %w",
			models.ErrAmbiguousProject, root, errors.Join(failures...))
	}

	adapter, err := manifest.New(d.fs, winner)
	if err != nil {
		return nil, nil, err
	}
	winner.SatellitePaths = adapter.SatelliteFiles()
	winner.Name = manifest.ProjectName(adapter, filepath.Base(root))

	d.logger.Debug("detected project", "kind", winner.Kind, "manifest", winner.PrimaryManifestPath)
	return winner, adapter, nil
}

// candidates lists every triggered kind in priority order.
func (d *Detector) candidates(root string) ([]candidate, error) {
	var out []candidate

	if c, ok, err := d.rustCandidate(root); err != nil {
		return nil, err
	} else if ok {
		out = append(out, c)
	}

	if path := filepath.Join(root, nodeManifest); d.fs.Exists(path) {
		out = append(out, d.check(models.KindNodePackage, root, path, validJSONObject))
	}
	if path := filepath.Join(root, pythonManifest); d.fs.Exists(path) {
		out = append(out, d.check(models.KindPythonProject, root, path, validPyproject))
	}
	if path := filepath.Join(root, goManifest); d.fs.Exists(path) {
		out = append(out, d.check(models.KindGoModule, root, path, validGoMod))
	}
	if path, ok := d.rubyManifest(root); ok {
		out = append(out, candidate{project: &models.DetectedProject{
			Kind: models.KindRubyGem, Root: root, PrimaryManifestPath: path,
		}})
	}
	if path := filepath.Join(root, helmManifest); d.fs.Exists(path) {
		out = append(out, d.check(models.KindHelmChart, root, path, validYAMLMapping))
	}

	return out, nil
}

func (d *Detector) check(kind models.ProjectKind, root, path string, validate func([]byte) error) candidate {
	project := &models.DetectedProject{Kind: kind, Root: root, PrimaryManifestPath: path}

	data, err := d.fs.ReadFile(path)
	if err != nil {
		return candidate{project: project, err: fmt.Errorf("failed to read %s: %w", path, err)}
	}
	if err := validate(data); errors.Is(err, models.ErrVersionFieldNotFound) {
		return candidate{project: project, err: fmt.Errorf("%s: %w", path, err)}
	} else if err != nil {
		return candidate{project: project, err: fmt.Errorf("%w: %s: %v", models.ErrManifestParse, path, err)}
	}
	return candidate{project: project}
}

// rustCandidate classifies Cargo.toml. A crate inheriting its version from
// a workspace is only valid when a workspace root can be found above it; a
// missing root is a hard failure.
func (d *Detector) rustCandidate(root string) (candidate, bool, error) {
	path := filepath.Join(root, cargoManifest)
	if !d.fs.Exists(path) {
		return candidate{}, false, nil
	}

	project := &models.DetectedProject{Kind: models.KindRustCrate, Root: root, PrimaryManifestPath: path}
	doc, err := d.decodeCargo(path)
	if err != nil {
		return candidate{project: project, err: err}, true, nil
	}

	if inheritsWorkspaceVersion(doc) {
		wsRoot, err := d.findWorkspaceRoot(root)
		if err != nil {
			return candidate{}, false, err
		}
		if wsRoot == path {
			// A root package inheriting from its own workspace.
			return candidate{project: project}, true, nil
		}
		project.Kind = models.KindRustWorkspaceMember
		project.PrimaryManifestPath = wsRoot
		project.MemberManifestPath = path
		return candidate{project: project}, true, nil
	}

	if hasString(doc, "package", "version") || hasString(doc, "workspace", "package", "version") {
		return candidate{project: project}, true, nil
	}

	d.logger.Debug("Cargo.toml declares no version", "manifest", path)
	return candidate{}, false, nil
}

// findWorkspaceRoot walks up from a member crate, starting with its own
// manifest, to the nearest Cargo.toml declaring [workspace].
func (d *Detector) findWorkspaceRoot(memberDir string) (string, error) {
	dir := memberDir
	for {
		path := filepath.Join(dir, cargoManifest)
		if d.fs.Exists(path) {
			doc, err := d.decodeCargo(path)
			if err != nil {
				return "", err
			}
			if _, ok := doc["workspace"]; ok {
				if !hasString(doc, "workspace", "package", "version") {
					return "", fmt.Errorf("%w: workspace root %s has no [workspace.package].version",
						models.ErrVersionFieldNotFound, path)
				}
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: %s inherits its version but no workspace root was found",
				models.ErrVersionFieldNotFound, filepath.Join(memberDir, cargoManifest))
		}
		dir = parent
	}
}

func (d *Detector) decodeCargo(path string) (map[string]any, error) {
	data, err := d.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrManifestParse, path, err)
	}
	return doc, nil
}

// rubyManifest prefers a gemspec; a bare Gemfile only counts when a
// version.rb exists below lib/.
func (d *Detector) rubyManifest(root string) (string, bool) {
	if spec := manifest.FindGemspec(d.fs, root); spec != "" {
		return spec, true
	}
	gemfile := filepath.Join(root, gemfileManifest)
	if !d.fs.Exists(gemfile) {
		return "", false
	}
	if d.fs.Exists(filepath.Join(root, "lib", "version.rb")) {
		return gemfile, true
	}
	matches, err := d.fs.Glob(filepath.Join(root, "lib", "*", "version.rb"))
	if err == nil && len(matches) > 0 {
		return gemfile, true
	}
	return "", false
}

func inheritsWorkspaceVersion(doc map[string]any) bool {
	pkg, ok := doc["package"].(map[string]any)
	if !ok {
		return false
	}
	version, ok := pkg["version"].(map[string]any)
	if !ok {
		return false
	}
	inherit, ok := version["workspace"].(bool)
	return ok && inherit
}

func hasString(doc map[string]any, path ...string) bool {
	var cur any = doc
	for _, key := range path {
		table, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		cur = table[key]
	}
	_, ok := cur.(string)
	return ok
}

func validJSONObject(data []byte) error {
	if !gjson.ValidBytes(data) {
		return errors.New("invalid JSON")
	}
	if !gjson.ParseBytes(data).IsObject() {
		return errors.New("top-level value is not an object")
	}
	return nil
}

// validPyproject rejects a pyproject.toml without a static version, so a
// lower-priority manifest that carries one can win.
func validPyproject(data []byte) error {
	var doc map[string]any
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return err
	}
	if hasString(doc, "project", "version") ||
		hasString(doc, "tool", "poetry", "version") ||
		hasString(doc, "tool", "setuptools", "version") {
		return nil
	}
	return fmt.Errorf("%w: no static [project], [tool.poetry] or [tool.setuptools] version",
		models.ErrVersionFieldNotFound)
}

func validGoMod(data []byte) error {
	f, err := modfile.ParseLax(goManifest, data, nil)
	if err != nil {
		return err
	}
	if f.Module == nil {
		return errors.New("missing module directive")
	}
	return nil
}

func validYAMLMapping(data []byte) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return errors.New("top-level value is not a mapping")
	}
	return nil
}
