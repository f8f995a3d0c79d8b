package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// OSGitClient implements GitClient using real git commands
type OSGitClient struct {
	ctx context.Context
	dir string
}

// NewOSGitClient creates a new OSGitClient running git in dir
func NewOSGitClient(dir string) *OSGitClient {
	return &OSGitClient{
		ctx: context.Background(),
		dir: dir,
	}
}

// WithContext returns a new client with the given context
func (g *OSGitClient) WithContext(ctx context.Context) GitClient {
	return &OSGitClient{
		ctx: ctx,
		dir: g.dir,
	}
}

func (g *OSGitClient) command(args ...string) *exec.Cmd {
	cmd := exec.CommandContext(g.ctx, "git", args...)
	cmd.Dir = g.dir
	return cmd
}

// IsGitRepo checks if the working directory is inside a git repository
func (g *OSGitClient) IsGitRepo() (bool, error) {
	cmd := g.command("rev-parse", "--git-dir")

	if err := cmd.Run(); err != nil {
		// Not a git repo
		return false, nil
	}

	return true, nil
}

// HeadCommit returns the full SHA of HEAD
func (g *OSGitClient) HeadCommit() (string, error) {
	cmd := g.command("rev-parse", "HEAD")

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}

	return strings.TrimSpace(out.String()), nil
}

// Add stages the given paths
func (g *OSGitClient) Add(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	cmd := g.command(append([]string{"add", "--"}, paths...)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to stage files: %w: %s", err, stderr.String())
	}

	return nil
}

// Commit records the staged changes and returns the new HEAD
func (g *OSGitClient) Commit(message string) (string, error) {
	cmd := g.command("commit", "-m", message)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to commit: %w: %s", err, stderr.String())
	}

	return g.HeadCommit()
}

// CreateTag creates an annotated tag
func (g *OSGitClient) CreateTag(tagName, message string, force bool) error {
	args := []string{"tag", "-a", tagName, "-m", message}
	if force {
		args = append(args, "-f")
	}
	cmd := g.command(args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to create tag %s: %w: %s", tagName, err, stderr.String())
	}

	return nil
}

// TagExists checks if a tag exists locally
func (g *OSGitClient) TagExists(tagName string) (bool, error) {
	cmd := g.command("tag", "-l", tagName)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}

	return strings.TrimSpace(out.String()) != "", nil
}
