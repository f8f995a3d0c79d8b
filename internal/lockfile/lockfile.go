// Package lockfile refreshes dependency lock files after a version change by
// running the ecosystem's package manager.
package lockfile

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

// Command is a package manager invocation.
type Command struct {
	Name string
	Args []string

	// Dir is the working directory.
	Dir string

	// LockFiles are the files the command may rewrite, relative to Dir.
	LockFiles []string
}

func (c *Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ExistingLockFiles returns the absolute paths of LockFiles present on disk.
func (c *Command) ExistingLockFiles(fs filesystem.FileSystem) []string {
	var out []string
	for _, name := range c.LockFiles {
		path := filepath.Join(c.Dir, name)
		if fs.Exists(path) {
			out = append(out, path)
		}
	}
	return out
}

type rule struct {
	marker  string
	command []string
	locks   []string
}

var nodeRules = []rule{
	{marker: "bun.lockb", command: []string{"bun", "install"}, locks: []string{"bun.lockb"}},
	{marker: "bun.lock", command: []string{"bun", "install"}, locks: []string{"bun.lock"}},
	{marker: "yarn.lock", command: []string{"yarn", "install"}, locks: []string{"yarn.lock"}},
	{marker: "pnpm-lock.yaml", command: []string{"pnpm", "install"}, locks: []string{"pnpm-lock.yaml"}},
	{marker: "package-lock.json", command: []string{"npm", "install"}, locks: []string{"package-lock.json"}},
}

var pythonRules = []rule{
	{marker: "poetry.lock", command: []string{"poetry", "lock"}, locks: []string{"poetry.lock"}},
	{marker: "Pipfile.lock", command: []string{"pipenv", "lock"}, locks: []string{"Pipfile.lock"}},
	{marker: "pdm.lock", command: []string{"pdm", "lock"}, locks: []string{"pdm.lock"}},
	{marker: "uv.lock", command: []string{"uv", "lock"}, locks: []string{"uv.lock"}},
	{marker: ".uv", command: []string{"uv", "lock"}, locks: []string{"uv.lock"}},
}

// pythonTools picks a tool from pyproject.toml when no lock file exists yet.
var pythonTools = []struct {
	table   string
	command []string
	locks   []string
}{
	{table: "[tool.poetry]", command: []string{"poetry", "lock"}, locks: []string{"poetry.lock"}},
	{table: "[tool.pdm]", command: []string{"pdm", "lock"}, locks: []string{"pdm.lock"}},
	{table: "[tool.hatch", command: []string{"hatch", "env", "create"}},
}

// Select returns the lock update command for a project, or false when the
// project has nothing to refresh.
func Select(fs filesystem.FileSystem, project *models.DetectedProject) (*Command, bool) {
	dir := project.Root

	switch project.Kind {
	case models.KindNodePackage:
		if c, ok := firstRule(fs, dir, nodeRules); ok {
			return c, true
		}
		return &Command{Name: "npm", Args: []string{"install"}, Dir: dir, LockFiles: []string{"package-lock.json"}}, true

	case models.KindPythonProject:
		if c, ok := firstRule(fs, dir, pythonRules); ok {
			return c, true
		}
		if data, err := fs.ReadFile(project.PrimaryManifestPath); err == nil {
			for _, tool := range pythonTools {
				if bytes.Contains(data, []byte(tool.table)) {
					return &Command{Name: tool.command[0], Args: tool.command[1:], Dir: dir, LockFiles: tool.locks}, true
				}
			}
		}
		if fs.Exists(filepath.Join(dir, "requirements.txt")) {
			return &Command{Name: "pip", Args: []string{"install", "-r", "requirements.txt"}, Dir: dir}, true
		}
		return nil, false

	case models.KindRustCrate, models.KindRustWorkspaceMember:
		// Cargo.lock lives next to the workspace root manifest.
		return &Command{
			Name:      "cargo",
			Args:      []string{"update", "--workspace"},
			Dir:       filepath.Dir(project.PrimaryManifestPath),
			LockFiles: []string{"Cargo.lock"},
		}, true

	case models.KindGoModule:
		return &Command{Name: "go", Args: []string{"mod", "tidy"}, Dir: dir, LockFiles: []string{"go.mod", "go.sum"}}, true

	case models.KindRubyGem:
		return &Command{Name: "bundle", Args: []string{"install"}, Dir: dir, LockFiles: []string{"Gemfile.lock"}}, true

	case models.KindHelmChart:
		if !fs.Exists(filepath.Join(dir, "Chart.lock")) {
			return nil, false
		}
		return &Command{Name: "helm", Args: []string{"dependency", "update"}, Dir: dir, LockFiles: []string{"Chart.lock"}}, true
	}

	return nil, false
}

func firstRule(fs filesystem.FileSystem, dir string, rules []rule) (*Command, bool) {
	for _, r := range rules {
		if fs.Exists(filepath.Join(dir, r.marker)) {
			return &Command{Name: r.command[0], Args: r.command[1:], Dir: dir, LockFiles: r.locks}, true
		}
	}
	return nil, false
}

// Runner executes a lock update command.
type Runner interface {
	Run(ctx context.Context, cmd *Command) ([]byte, error)
}

// ExecRunner runs commands as subprocesses.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, c *Command) ([]byte, error) {
	if _, err := exec.LookPath(c.Name); err != nil {
		return nil, fmt.Errorf("%s not found in PATH: %w", c.Name, err)
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("%s failed: %w: %s", c, err, strings.TrimSpace(string(out)))
	}
	return out, nil
}
