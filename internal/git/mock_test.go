package git_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/project-version/internal/git"
)

func TestMockGitClient_CommitAndTag(t *testing.T) {
	mock := git.NewMockGitClient()

	require.NoError(t, mock.Add("/p/package.json", "/p/CHANGELOG.md"))
	assert.Equal(t, []string{"/p/package.json", "/p/CHANGELOG.md"}, mock.StagedFiles())

	sha, err := mock.Commit("release: version 1.1.0")
	require.NoError(t, err)
	assert.Empty(t, mock.StagedFiles())

	commits := mock.Commits()
	require.Len(t, commits, 2)
	assert.Equal(t, "release: version 1.1.0", commits[1].Message)
	assert.Equal(t, commits[0].Hash, commits[1].Parent)

	require.NoError(t, mock.CreateTag("v1.1.0", "v1.1.0", false))
	assert.Equal(t, sha, mock.Tag("v1.1.0").CommitHash)
}

func TestMockGitClient_CommitWithoutStagedFiles(t *testing.T) {
	_, err := git.NewMockGitClient().Commit("empty")
	assert.Error(t, err)
}

func TestMockGitClient_ForceTag(t *testing.T) {
	mock := git.NewMockGitClient()
	mock.AddTag("v1.0.0", "old")

	assert.Error(t, mock.CreateTag("v1.0.0", "new", false))
	require.NoError(t, mock.CreateTag("v1.0.0", "new", true))
	assert.Equal(t, "new", mock.Tag("v1.0.0").Message)
	assert.Equal(t, []string{"v1.0.0"}, mock.TagNames())
}

func TestMockGitClient_ErrorHooks(t *testing.T) {
	mock := git.NewMockGitClient()
	boom := errors.New("boom")
	mock.CommitError = boom
	mock.TagExistsError = boom

	require.NoError(t, mock.Add("a"))
	_, err := mock.Commit("x")
	assert.ErrorIs(t, err, boom)

	_, err = mock.TagExists("v1")
	assert.ErrorIs(t, err, boom)
}

func TestParseBackend(t *testing.T) {
	b, err := git.ParseBackend("")
	require.NoError(t, err)
	assert.Equal(t, git.BackendExec, b)

	b, err = git.ParseBackend("go-git")
	require.NoError(t, err)
	assert.Equal(t, git.BackendGoGit, b)

	_, err = git.ParseBackend("svn")
	assert.Error(t, err)
}
