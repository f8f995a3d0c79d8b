package git_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jakoblorz/project-version/internal/git"
	"github.com/stretchr/testify/require"
)

// setupTestRepo creates a temporary git repository for testing
func setupTestRepo(t *testing.T) (*git.OSGitClient, string) {
	t.Helper()

	// Check if git is available
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available in PATH")
	}

	tmpDir := t.TempDir()

	// Initialize git repo with main as default branch
	runGitCmd(t, tmpDir, "init", "-b", "main")
	runGitCmd(t, tmpDir, "config", "user.name", "Test User")
	runGitCmd(t, tmpDir, "config", "user.email", "test@example.com")
	runGitCmd(t, tmpDir, "config", "commit.gpgsign", "false")
	runGitCmd(t, tmpDir, "config", "tag.gpgsign", "false")

	// Create initial commit (empty repos can't have tags on HEAD)
	writeFile(t, tmpDir, "README.md", "# Test Repo")
	runGitCmd(t, tmpDir, "add", ".")
	runGitCmd(t, tmpDir, "commit", "-m", "Initial commit")

	return git.NewOSGitClient(tmpDir), tmpDir
}

// runGitCmd runs a git command in the specified directory
func runGitCmd(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v failed\nOutput: %s", args, output)
	return strings.TrimSpace(string(output))
}

// writeFile writes content to a file
func writeFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	path := filepath.Join(dir, filename)
	require.NoErrorf(t, os.WriteFile(path, []byte(content), 0644), "failed to write file %s", path)
}

func TestOSGit_IsGitRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, _ := setupTestRepo(t)
	ok, err := client.IsGitRepo()
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = git.NewOSGitClient(t.TempDir()).IsGitRepo()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOSGit_AddCommit(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, repoPath := setupTestRepo(t)

	writeFile(t, repoPath, "package.json", `{"version":"1.0.1"}`)
	require.NoError(t, client.Add(filepath.Join(repoPath, "package.json")))

	sha, err := client.Commit("release: version 1.0.1")
	require.NoError(t, err)
	require.Equal(t, runGitCmd(t, repoPath, "rev-parse", "HEAD"), sha)
	require.Equal(t, "release: version 1.0.1", runGitCmd(t, repoPath, "log", "-1", "--format=%s"))

	head, err := client.HeadCommit()
	require.NoError(t, err)
	require.Equal(t, sha, head)
}

func TestOSGit_TagOperations(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	client, repoPath := setupTestRepo(t)

	require.NoError(t, client.CreateTag("v1.0.0", "Release 1.0.0", false))

	exists, err := client.TagExists("v1.0.0")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = client.TagExists("v9.9.9")
	require.NoError(t, err)
	require.False(t, exists)

	require.Error(t, client.CreateTag("v1.0.0", "Duplicate", false))

	writeFile(t, repoPath, "next.txt", "next")
	require.NoError(t, client.Add("next.txt"))
	sha, err := client.Commit("next")
	require.NoError(t, err)

	require.NoError(t, client.CreateTag("v1.0.0", "Moved", true))
	require.Equal(t, sha, runGitCmd(t, repoPath, "rev-list", "-n", "1", "v1.0.0"))
}
