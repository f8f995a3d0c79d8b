package manifest

import (
	"bytes"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	gitignore "github.com/denormal/go-gitignore"
	"golang.org/x/mod/modfile"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

// goVersionPattern matches `Version = "1.2.3"` style declarations, with an
// optional `string` type and any of Go's string quotes. Group 4 is the
// literal.
var goVersionPattern = regexp.MustCompile(
	"(?m)\\b(Version|VERSION)(\\s*(?:string\\s*)?=\\s*)([\"`])(v?\\d+\\.\\d+\\.\\d+(?:-[0-9A-Za-z.-]+)?(?:\\+[0-9A-Za-z.-]+)?)([\"`])",
)

const goVersionFileName = "version.go"

// GoModule handles a Go module. go.mod is never modified; the version lives
// in `Version` constants or variables of version.go files below the module
// root.
type GoModule struct {
	fs         filesystem.FileSystem
	goModPath  string
	root       string
	discovered []string
}

func NewGoModule(fs filesystem.FileSystem, goModPath string) *GoModule {
	return &GoModule{fs: fs, goModPath: goModPath, root: filepath.Dir(goModPath)}
}

func (g *GoModule) Kind() models.ProjectKind { return models.KindGoModule }
func (g *GoModule) PrimaryFile() string      { return g.goModPath }

func (g *GoModule) SatelliteFiles() []string {
	files, err := g.versionFiles()
	if err != nil {
		return nil
	}
	return files
}

// Name returns the module path declared in go.mod.
func (g *GoModule) Name() (string, error) {
	data, err := readFile(g.fs, g.goModPath)
	if err != nil {
		return "", err
	}
	f, err := modfile.ParseLax(g.goModPath, data, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrManifestParse, err)
	}
	if f.Module == nil {
		return "", fmt.Errorf("%w: %s has no module directive", models.ErrManifestParse, g.goModPath)
	}
	return f.Module.Mod.Path, nil
}

func (g *GoModule) GetVersion() (*models.Version, error) {
	files, err := g.versionFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no Version declaration in any %s below %s",
			models.ErrVersionFieldNotFound, goVersionFileName, g.root)
	}

	data, err := readFile(g.fs, files[0])
	if err != nil {
		return nil, err
	}
	m := goVersionPattern.FindSubmatch(data)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", models.ErrVersionFieldNotFound, files[0])
	}
	return parseFieldVersion(files[0], string(m[1]), string(m[4]))
}

func (g *GoModule) Edits(newVersion *models.Version) ([]Edit, error) {
	files, err := g.versionFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no Version declaration in any %s below %s",
			models.ErrVersionFieldNotFound, goVersionFileName, g.root)
	}

	edits := make([]Edit, 0, len(files))
	for _, path := range files {
		data, err := readFile(g.fs, path)
		if err != nil {
			return nil, err
		}
		// only the first declaration per file
		loc := goVersionPattern.FindSubmatchIndex(data)
		if loc == nil {
			continue
		}
		s := span{start: loc[8], end: loc[9], field: string(data[loc[2]:loc[3]])}
		after, changes := splice(data, []span{s}, newVersion)
		edits = append(edits, Edit{Path: path, Before: data, After: after, Changes: changes})
	}
	return edits, nil
}

func (g *GoModule) versionFiles() ([]string, error) {
	if g.discovered != nil {
		return g.discovered, nil
	}
	files, err := FindGoVersionFiles(g.fs, g.root)
	if err != nil {
		return nil, err
	}
	g.discovered = files
	return files, nil
}

// FindGoVersionFiles walks a module root for version.go files that declare a
// version. Hidden directories, vendor, testdata, gitignored paths and nested
// modules are skipped. Shallower files come first.
func FindGoVersionFiles(fsys filesystem.FileSystem, root string) ([]string, error) {
	ignore, err := loadGitIgnore(fsys, root)
	if err != nil {
		return nil, err
	}

	var files []string
	err = fsys.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			name := entry.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "testdata" || name == "node_modules" {
				return filepath.SkipDir
			}
			if fsys.Exists(filepath.Join(path, "go.mod")) {
				return filepath.SkipDir
			}
		}

		if ignore != nil {
			if match := ignore.Relative(rel, entry.IsDir()); match != nil && match.Ignore() {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if entry.IsDir() || entry.Name() != goVersionFileName {
			return nil
		}

		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if goVersionPattern.Match(data) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(files, func(i, j int) bool {
		di := strings.Count(filepath.ToSlash(files[i]), "/")
		dj := strings.Count(filepath.ToSlash(files[j]), "/")
		if di != dj {
			return di < dj
		}
		return files[i] < files[j]
	})
	return files, nil
}

func loadGitIgnore(fsys filesystem.FileSystem, root string) (gitignore.GitIgnore, error) {
	ignorePath := filepath.Join(root, ".gitignore")
	if !fsys.Exists(ignorePath) {
		return nil, nil
	}

	data, err := fsys.ReadFile(ignorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .gitignore: %w", err)
	}

	return gitignore.New(bytes.NewReader(data), root, nil), nil
}
