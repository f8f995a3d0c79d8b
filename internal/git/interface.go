package git

import (
	"context"
	"fmt"
)

// GitClient provides an abstraction over the git operations a release needs.
// Every client is bound to one working directory.
type GitClient interface {
	// Repository operations
	IsGitRepo() (bool, error)
	HeadCommit() (string, error)

	// Commit operations
	Add(paths ...string) error
	Commit(message string) (string, error)

	// Tag operations. CreateTag makes an annotated tag at HEAD; with force an
	// existing tag of the same name is replaced.
	TagExists(tagName string) (bool, error)
	CreateTag(tagName, message string, force bool) error

	WithContext(ctx context.Context) GitClient
}

// Backend selects a GitClient implementation.
type Backend string

const (
	BackendExec  Backend = "exec"
	BackendGoGit Backend = "go-git"
)

// ParseBackend validates a backend name. Empty selects exec.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case "", BackendExec:
		return BackendExec, nil
	case BackendGoGit:
		return BackendGoGit, nil
	default:
		return "", fmt.Errorf("unknown git backend %q (want %q or %q)", s, BackendExec, BackendGoGit)
	}
}

// New returns the client for backend, bound to dir.
func New(backend Backend, dir string) GitClient {
	if backend == BackendGoGit {
		return NewGoGitClient(dir)
	}
	return NewOSGitClient(dir)
}
