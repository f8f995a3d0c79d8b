package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

func TestPythonProject_PEP621(t *testing.T) {
	src := `# project metadata
[project]
name = "tool"
version = "0.4.1"  # bumped by release
dependencies = [
  "requests>=2",
  "click",
]

[tool.ruff]
target-version = "py311"
`
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/py/pyproject.toml", []byte(src))

	adapter := NewPythonProject(fs, "/py/pyproject.toml")
	v, err := adapter.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "0.4.1", v.String())

	edits, err := adapter.Edits(models.MustParseVersion("0.5.0"))
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, `# project metadata
[project]
name = "tool"
version = "0.5.0"  # bumped by release
dependencies = [
  "requests>=2",
  "click",
]

[tool.ruff]
target-version = "py311"
`, string(edits[0].After))
}

func TestPythonProject_UpdatesEveryLocation(t *testing.T) {
	src := `[project]
name = "dual"
version = '2.0.0'

[tool.poetry]
name = "dual"
version = "2.0.0"
`
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/py/pyproject.toml", []byte(src))

	edits, err := NewPythonProject(fs, "/py/pyproject.toml").Edits(models.MustParseVersion("2.1.0"))
	require.NoError(t, err)
	require.Len(t, edits, 1)
	assert.Equal(t, `[project]
name = "dual"
version = '2.1.0'

[tool.poetry]
name = "dual"
version = "2.1.0"
`, string(edits[0].After))
	assert.Equal(t, []Change{
		{Field: "[project].version", OldValue: "2.0.0", NewValue: "2.1.0"},
		{Field: "[tool.poetry].version", OldValue: "2.0.0", NewValue: "2.1.0"},
	}, edits[0].Changes)
}

func TestPythonProject_PoetryOnly(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/py/pyproject.toml", []byte("[tool.poetry]\nname = \"legacy\"\nversion = \"1.0.0\"\n"))

	adapter := NewPythonProject(fs, "/py/pyproject.toml")
	v, err := adapter.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", v.String())

	name, err := adapter.Name()
	require.NoError(t, err)
	assert.Equal(t, "legacy", name)
}

func TestPythonProject_DynamicVersion(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/py/pyproject.toml", []byte("[project]\nname = \"x\"\ndynamic = [\"version\"]\n"))

	_, err := NewPythonProject(fs, "/py/pyproject.toml").GetVersion()
	require.ErrorIs(t, err, models.ErrVersionFieldNotFound)
	assert.Contains(t, err.Error(), "dynamic")
}

func TestPythonProject_InvalidTOML(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/py/pyproject.toml", []byte("[project\nversion = \"1.0.0\"\n"))

	_, err := NewPythonProject(fs, "/py/pyproject.toml").GetVersion()
	assert.ErrorIs(t, err, models.ErrManifestParse)
}
