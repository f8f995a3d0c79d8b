package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/project-version/internal/config"
	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/git"
	"github.com/jakoblorz/project-version/internal/lockfile"
	"github.com/jakoblorz/project-version/internal/models"
	"github.com/jakoblorz/project-version/internal/release"
)

type stubLockRunner struct{ calls []string }

func (s *stubLockRunner) Run(_ context.Context, cmd *lockfile.Command) ([]byte, error) {
	s.calls = append(s.calls, cmd.String())
	return nil, nil
}

type cliFixture struct {
	fs    *filesystem.MockFileSystem
	git   *git.MockGitClient
	locks *stubLockRunner
}

func newCLIFixture() *cliFixture {
	fs := filesystem.NewMockFileSystem()
	fs.SetCurrentDir("/work")
	fs.AddFile("/work/chart/Chart.yaml", []byte("apiVersion: v2\nname: web\n# released by CI\nversion: 1.2.3\nappVersion: \"4.5.6\"\n"))
	return &cliFixture{fs: fs, git: git.NewMockGitClient(), locks: &stubLockRunner{}}
}

func (f *cliFixture) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand(f.fs,
		WithLogOutput(io.Discard),
		WithConfigOptions(config.WithGlobalPath("")),
		WithConfirm(func(string) (bool, error) { return false, nil }),
		WithRunnerOptions(
			release.WithGitClient(func(string) git.GitClient { return f.git }),
			release.WithLockRunner(f.locks),
		),
	)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(normalizeArgs(args, root))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestShow(t *testing.T) {
	for _, args := range [][]string{{"chart"}, {"chart", "show"}, {"show", "-C", "/work/chart"}} {
		f := newCLIFixture()
		out, err := f.run(t, args...)
		require.NoError(t, err, args)

		assert.Contains(t, out, "Helm chart web")
		assert.Contains(t, out, "/work/chart/Chart.yaml")
		assert.Contains(t, out, "1.2.3")
	}
}

func TestBump(t *testing.T) {
	f := newCLIFixture()

	out, err := f.run(t, "chart", "bump", "minor")
	require.NoError(t, err)

	data, err := f.fs.ReadFile("/work/chart/Chart.yaml")
	require.NoError(t, err)
	assert.Equal(t, "apiVersion: v2\nname: web\n# released by CI\nversion: 1.3.0\nappVersion: \"4.5.6\"\n", string(data))

	assert.Contains(t, out, "1.2.3 → 1.3.0")
	assert.NotNil(t, f.git.Tag("v1.3.0"))
	commits := f.git.Commits()
	assert.Equal(t, "release: version 1.3.0", commits[len(commits)-1].Message)
	// No Chart.lock, nothing to refresh.
	assert.Empty(t, f.locks.calls)
}

func TestBump_DefaultsToPatch(t *testing.T) {
	f := newCLIFixture()

	_, err := f.run(t, "-C", "chart", "bump", "--no-commit")
	require.NoError(t, err)

	data, _ := f.fs.ReadFile("/work/chart/Chart.yaml")
	assert.Contains(t, string(data), "version: 1.2.4\n")
	assert.Len(t, f.git.Commits(), 1)
	assert.Empty(t, f.git.TagNames())
}

func TestBump_InvalidType(t *testing.T) {
	f := newCLIFixture()

	_, err := f.run(t, "chart", "bump", "huge")
	assert.Error(t, err)
}

func TestBump_DryRun(t *testing.T) {
	f := newCLIFixture()
	before, _ := f.fs.ReadFile("/work/chart/Chart.yaml")

	out, err := f.run(t, "-n", "chart", "bump", "major")
	require.NoError(t, err)

	after, _ := f.fs.ReadFile("/work/chart/Chart.yaml")
	assert.Equal(t, before, after)
	assert.Contains(t, out, "(dry run)")
	assert.Contains(t, out, "Would update 1 file(s)")
	assert.Empty(t, f.git.TagNames())
}

func TestSet(t *testing.T) {
	f := newCLIFixture()

	_, err := f.run(t, "chart", "set", "2.0.0-beta.1", "--no-tag")
	require.NoError(t, err)

	data, _ := f.fs.ReadFile("/work/chart/Chart.yaml")
	assert.Contains(t, string(data), "version: 2.0.0-beta.1\n")
	assert.Empty(t, f.git.TagNames())
}

func TestSet_NotHigher(t *testing.T) {
	f := newCLIFixture()

	_, err := f.run(t, "chart", "set", "1.0.0")
	assert.ErrorIs(t, err, models.ErrVersionNotHigher)

	_, err = f.run(t, "chart", "set", "1.0.0", "--force")
	require.NoError(t, err)
	data, _ := f.fs.ReadFile("/work/chart/Chart.yaml")
	assert.Contains(t, string(data), "version: 1.0.0\n")
}

func TestBump_TagExistsDeclined(t *testing.T) {
	f := newCLIFixture()
	f.git.AddTag("v1.2.4", "old")

	out, err := f.run(t, "chart", "bump")
	assert.ErrorIs(t, err, models.ErrTagAlreadyExists)
	assert.Contains(t, out, "v1.2.4 already exists")

	f.git.AddTag("v1.2.5", "old")
	_, err = f.run(t, "chart", "bump", "--force-tag")
	require.NoError(t, err)

	commits := f.git.Commits()
	assert.Equal(t, commits[len(commits)-1].Hash, f.git.Tag("v1.2.5").CommitHash)
	assert.Equal(t, "release: version 1.2.5", f.git.Tag("v1.2.5").Message)
}

func TestBump_CommitFailureExitsWithError(t *testing.T) {
	f := newCLIFixture()
	hookErr := errors.New("pre-commit hook rejected")
	f.git.CommitError = hookErr

	out, err := f.run(t, "chart", "bump")
	require.ErrorIs(t, err, hookErr)
	assert.Contains(t, out, "pre-commit hook rejected")

	// The manifest stays bumped; nothing is rolled back.
	data, _ := f.fs.ReadFile("/work/chart/Chart.yaml")
	assert.Contains(t, string(data), "version: 1.2.4\n")
	assert.Len(t, f.git.Commits(), 1)
	assert.Empty(t, f.git.TagNames())
}

func TestBump_TagFailureExitsWithError(t *testing.T) {
	f := newCLIFixture()
	f.git.CreateTagError = errors.New("tag signing failed")

	_, err := f.run(t, "chart", "bump")
	require.ErrorIs(t, err, f.git.CreateTagError)

	commits := f.git.Commits()
	assert.Equal(t, "release: version 1.2.4", commits[len(commits)-1].Message)
	assert.Empty(t, f.git.TagNames())
}

func TestProjectConfigFile(t *testing.T) {
	f := newCLIFixture()
	f.fs.AddFile("/work/chart/.project-version.yaml", []byte("tag: false\ncommit_message: \"chore(release): {{ .Project }} {{ .Version }}\"\n"))

	_, err := f.run(t, "chart", "bump")
	require.NoError(t, err)

	commits := f.git.Commits()
	assert.Equal(t, "chore(release): web 1.2.4", commits[len(commits)-1].Message)
	assert.Empty(t, f.git.TagNames())
}

func TestNoProject(t *testing.T) {
	f := newCLIFixture()
	f.fs.AddDir("/work/empty")

	_, err := f.run(t, "empty", "bump")
	assert.ErrorIs(t, err, models.ErrNoProjectDetected)
}
