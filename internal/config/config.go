// Package config resolves release settings from built-in defaults, the
// user's global config file and the project's .project-version.yaml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/git"
)

const (
	// ProjectFileName is looked up in the target directory.
	ProjectFileName = ".project-version.yaml"

	globalRelPath = "project-version/config.yaml"

	DefaultCommitMessage = "release: version {{ .Version }}"
	DefaultTagName       = "v{{ .Version }}"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	Commit    bool
	Tag       bool
	Lockfile  bool
	Changelog bool

	CommitMessage string
	TagName       string
	GitBackend    git.Backend

	// Sources lists the files that contributed, lowest precedence first.
	Sources []string
}

// fileConfig is the on-disk shape. Pointers distinguish unset keys from
// zero values so that later sources only override what they declare.
type fileConfig struct {
	Commit        *bool   `yaml:"commit"`
	Tag           *bool   `yaml:"tag"`
	Lockfile      *bool   `yaml:"lockfile"`
	Changelog     *bool   `yaml:"changelog"`
	CommitMessage *string `yaml:"commit_message"`
	TagName       *string `yaml:"tag_name"`
	GitBackend    *string `yaml:"git_backend"`
}

// Default returns the settings used when no file overrides them.
func Default() *Config {
	return &Config{
		Commit:        true,
		Tag:           true,
		Lockfile:      true,
		Changelog:     true,
		CommitMessage: DefaultCommitMessage,
		TagName:       DefaultTagName,
		GitBackend:    git.BackendExec,
	}
}

type loader struct {
	fs         filesystem.FileSystem
	globalPath func() (string, bool)
}

// Option configures Load.
type Option func(*loader)

// WithGlobalPath replaces the XDG lookup of the global config file. An empty
// path disables the global file.
func WithGlobalPath(path string) Option {
	return func(l *loader) {
		l.globalPath = func() (string, bool) { return path, path != "" }
	}
}

// Load merges defaults, the global file and the project file in projectDir.
func Load(fs filesystem.FileSystem, projectDir string, options ...Option) (*Config, error) {
	l := &loader{fs: fs, globalPath: xdgGlobalPath}
	for _, option := range options {
		option(l)
	}

	cfg := Default()
	paths := []string{filepath.Join(projectDir, ProjectFileName)}
	if global, ok := l.globalPath(); ok {
		paths = append([]string{global}, paths...)
	}

	for _, path := range paths {
		if !fs.Exists(path) {
			continue
		}
		fc, err := l.read(path)
		if err != nil {
			return nil, err
		}
		if err := cfg.merge(fc); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
		cfg.Sources = append(cfg.Sources, path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func xdgGlobalPath() (string, bool) {
	path, err := xdg.SearchConfigFile(globalRelPath)
	if err != nil {
		return "", false
	}
	return path, true
}

func (l *loader) read(path string) (*fileConfig, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var fc fileConfig
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &fc, nil
}

func (c *Config) merge(fc *fileConfig) error {
	if fc.Commit != nil {
		c.Commit = *fc.Commit
	}
	if fc.Tag != nil {
		c.Tag = *fc.Tag
	}
	if fc.Lockfile != nil {
		c.Lockfile = *fc.Lockfile
	}
	if fc.Changelog != nil {
		c.Changelog = *fc.Changelog
	}
	if fc.CommitMessage != nil {
		c.CommitMessage = *fc.CommitMessage
	}
	if fc.TagName != nil {
		c.TagName = *fc.TagName
	}
	if fc.GitBackend != nil {
		backend, err := git.ParseBackend(*fc.GitBackend)
		if err != nil {
			return err
		}
		c.GitBackend = backend
	}
	return nil
}

// Validate checks that both templates parse.
func (c *Config) Validate() error {
	if _, err := parseTemplate("commit_message", c.CommitMessage); err != nil {
		return err
	}
	if _, err := parseTemplate("tag_name", c.TagName); err != nil {
		return err
	}
	return nil
}

// TemplateData is available to commit_message and tag_name templates.
type TemplateData struct {
	Version  string
	Previous string
	Kind     string
	Project  string
}

// RenderCommitMessage renders the commit message template.
func (c *Config) RenderCommitMessage(data TemplateData) (string, error) {
	return render("commit_message", c.CommitMessage, data)
}

// RenderTagName renders the tag name template. Surrounding whitespace is
// trimmed and an empty result is an error.
func (c *Config) RenderTagName(data TemplateData) (string, error) {
	name, err := render("tag_name", c.TagName, data)
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("tag_name template %q rendered an empty tag", c.TagName)
	}
	return name, nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid %s template: %w", name, err)
	}
	return tmpl, nil
}

func render(name, text string, data TemplateData) (string, error) {
	tmpl, err := parseTemplate(name, text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}
