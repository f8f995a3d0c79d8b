package manifest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

const rubySemver = `\d+\.\d+\.\d+(?:[-.][0-9A-Za-z.-]+)?(?:\+[0-9A-Za-z.-]+)?`

var (
	rubyVersionConstant = regexp.MustCompile(`(?m)\bVERSION(\s*=\s*)(['"])(v?` + rubySemver + `)(['"])`)
	gemspecVersion      = regexp.MustCompile(`(?m)\.version(\s*=\s*)(['"])(v?` + rubySemver + `)(['"])`)
	gemspecName         = regexp.MustCompile(`(?m)\.name\s*=\s*['"]([^'"]+)['"]`)
)

// RubyGem handles the VERSION constant of lib/<gem>/version.rb and a
// literal `spec.version = "..."` in the gemspec, when present.
type RubyGem struct {
	fs      filesystem.FileSystem
	root    string
	primary string
}

// NewRubyGem takes the gemspec path, or the Gemfile when there is none.
func NewRubyGem(fs filesystem.FileSystem, primary string) *RubyGem {
	return &RubyGem{fs: fs, root: filepath.Dir(primary), primary: primary}
}

func (r *RubyGem) Kind() models.ProjectKind { return models.KindRubyGem }
func (r *RubyGem) PrimaryFile() string      { return r.primary }

func (r *RubyGem) SatelliteFiles() []string {
	var files []string
	if path := r.versionFile(); path != "" {
		files = append(files, path)
	}
	return files
}

// Name returns the gem name declared in the gemspec.
func (r *RubyGem) Name() (string, error) {
	spec := r.gemspec()
	if spec == "" {
		return "", fmt.Errorf("no gemspec in %s", r.root)
	}
	data, err := readFile(r.fs, spec)
	if err != nil {
		return "", err
	}
	m := gemspecName.FindSubmatch(data)
	if m == nil {
		return "", fmt.Errorf("%w: no name in %s", models.ErrManifestParse, spec)
	}
	return string(m[1]), nil
}

func (r *RubyGem) GetVersion() (*models.Version, error) {
	for _, loc := range r.locations() {
		data, err := readFile(r.fs, loc.path)
		if err != nil {
			return nil, err
		}
		if m := loc.pattern.FindSubmatch(data); m != nil {
			return parseFieldVersion(loc.path, loc.field, string(m[3]))
		}
	}
	return nil, fmt.Errorf("%w: no VERSION constant or gemspec version in %s", models.ErrVersionFieldNotFound, r.root)
}

func (r *RubyGem) Edits(newVersion *models.Version) ([]Edit, error) {
	var edits []Edit
	for _, loc := range r.locations() {
		data, err := readFile(r.fs, loc.path)
		if err != nil {
			return nil, err
		}
		idx := loc.pattern.FindSubmatchIndex(data)
		if idx == nil {
			continue
		}
		after, changes := splice(data, []span{{start: idx[6], end: idx[7], field: loc.field}}, newVersion)
		edits = append(edits, Edit{Path: loc.path, Before: data, After: after, Changes: changes})
	}
	if len(edits) == 0 {
		return nil, fmt.Errorf("%w: no VERSION constant or gemspec version in %s", models.ErrVersionFieldNotFound, r.root)
	}
	return edits, nil
}

type rubyLocation struct {
	path    string
	field   string
	pattern *regexp.Regexp
}

// locations lists version.rb before the gemspec; the constant is
// authoritative.
func (r *RubyGem) locations() []rubyLocation {
	var locs []rubyLocation
	if path := r.versionFile(); path != "" {
		locs = append(locs, rubyLocation{path: path, field: "VERSION", pattern: rubyVersionConstant})
	}
	if spec := r.gemspec(); spec != "" {
		locs = append(locs, rubyLocation{path: spec, field: "spec.version", pattern: gemspecVersion})
	}
	return locs
}

func (r *RubyGem) gemspec() string {
	if strings.HasSuffix(r.primary, ".gemspec") {
		return r.primary
	}
	return FindGemspec(r.fs, r.root)
}

// versionFile resolves lib/<gem>/version.rb, falling back to the nested
// lib/<a>/<b>/version.rb layout of dashed gem names and then to the only
// version.rb directly below lib/.
func (r *RubyGem) versionFile() string {
	var candidates []string
	if name, err := r.Name(); err == nil {
		candidates = append(candidates,
			filepath.Join(r.root, "lib", name, "version.rb"),
			filepath.Join(r.root, "lib", filepath.FromSlash(strings.ReplaceAll(name, "-", "/")), "version.rb"),
		)
	}
	for _, c := range candidates {
		if r.fs.Exists(c) {
			return c
		}
	}

	entries, err := r.fs.ReadDir(filepath.Join(r.root, "lib"))
	if err != nil {
		return ""
	}
	var found []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(r.root, "lib", e.Name(), "version.rb")
		if r.fs.Exists(path) {
			found = append(found, path)
		}
	}
	if len(found) == 1 {
		return found[0]
	}
	if path := filepath.Join(r.root, "lib", "version.rb"); r.fs.Exists(path) {
		return path
	}
	return ""
}

// FindGemspec returns the alphabetically first *.gemspec in dir, or "".
func FindGemspec(fs filesystem.FileSystem, dir string) string {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return ""
	}
	var specs []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".gemspec") {
			specs = append(specs, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(specs)
	if len(specs) == 0 {
		return ""
	}
	return specs[0]
}
