package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/git"
)

func TestLoad_Defaults(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddDir("/p")

	cfg, err := Load(fs, "/p", WithGlobalPath(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/home/me/.config/project-version/config.yaml", []byte(`
commit: false
tag_name: "release-{{ .Version }}"
git_backend: go-git
`))
	fs.AddFile("/p/.project-version.yaml", []byte(`
commit: true
changelog: false
`))

	cfg, err := Load(fs, "/p", WithGlobalPath("/home/me/.config/project-version/config.yaml"))
	require.NoError(t, err)

	assert.True(t, cfg.Commit)
	assert.True(t, cfg.Tag)
	assert.False(t, cfg.Changelog)
	assert.Equal(t, "release-{{ .Version }}", cfg.TagName)
	assert.Equal(t, git.BackendGoGit, cfg.GitBackend)
	assert.Equal(t, []string{
		"/home/me/.config/project-version/config.yaml",
		"/p/.project-version.yaml",
	}, cfg.Sources)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown key", "comit: false\n"},
		{"bad backend", "git_backend: svn\n"},
		{"bad template", "tag_name: \"v{{ .Version \"\n"},
		{"bad yaml", "commit: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMockFileSystem()
			fs.AddFile("/p/.project-version.yaml", []byte(tt.content))

			_, err := Load(fs, "/p", WithGlobalPath(""))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/p/.project-version.yaml", []byte(""))

	cfg, err := Load(fs, "/p", WithGlobalPath(""))
	require.NoError(t, err)
	assert.True(t, cfg.Commit)
}

func TestRender(t *testing.T) {
	data := TemplateData{Version: "1.4.0", Previous: "1.3.2", Kind: "node", Project: "web-app"}

	cfg := Default()
	msg, err := cfg.RenderCommitMessage(data)
	require.NoError(t, err)
	assert.Equal(t, "release: version 1.4.0", msg)

	tag, err := cfg.RenderTagName(data)
	require.NoError(t, err)
	assert.Equal(t, "v1.4.0", tag)

	cfg.TagName = "{{ .Project | lower }}@v{{ .Version }}"
	cfg.CommitMessage = "chore({{ .Kind }}): {{ .Previous }} -> {{ .Version }}"

	tag, err = cfg.RenderTagName(data)
	require.NoError(t, err)
	assert.Equal(t, "web-app@v1.4.0", tag)

	msg, err = cfg.RenderCommitMessage(data)
	require.NoError(t, err)
	assert.Equal(t, "chore(node): 1.3.2 -> 1.4.0", msg)

	cfg.TagName = "{{ if false }}x{{ end }}"
	_, err = cfg.RenderTagName(data)
	assert.Error(t, err)
}
