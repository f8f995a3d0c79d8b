package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitClient implements GitClient in-process with go-git. The repository
// is discovered by walking up from dir, like the git CLI does.
type GoGitClient struct {
	ctx context.Context
	dir string
}

// NewGoGitClient creates a new GoGitClient for the repository containing dir
func NewGoGitClient(dir string) *GoGitClient {
	return &GoGitClient{
		ctx: context.Background(),
		dir: dir,
	}
}

// WithContext returns a new client with the given context
func (g *GoGitClient) WithContext(ctx context.Context) GitClient {
	return &GoGitClient{
		ctx: ctx,
		dir: g.dir,
	}
}

func (g *GoGitClient) open() (*gogit.Repository, error) {
	if err := g.ctx.Err(); err != nil {
		return nil, err
	}
	repo, err := gogit.PlainOpenWithOptions(g.dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", g.dir, err)
	}
	return repo, nil
}

func (g *GoGitClient) IsGitRepo() (bool, error) {
	_, err := g.open()
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (g *GoGitClient) HeadCommit() (string, error) {
	repo, err := g.open()
	if err != nil {
		return "", err
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

// Add stages paths. Absolute paths and paths relative to the client
// directory are both accepted.
func (g *GoGitClient) Add(paths ...string) error {
	repo, err := g.open()
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to open worktree: %w", err)
	}

	root := wt.Filesystem.Root()
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(g.dir, p)
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
		if _, err := wt.Add(filepath.ToSlash(rel)); err != nil {
			return fmt.Errorf("failed to stage %s: %w", p, err)
		}
	}
	return nil
}

func (g *GoGitClient) Commit(message string) (string, error) {
	repo, err := g.open()
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to open worktree: %w", err)
	}
	sig, err := signature(repo)
	if err != nil {
		return "", err
	}

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: sig, Committer: sig})
	if err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return hash.String(), nil
}

func (g *GoGitClient) TagExists(tagName string) (bool, error) {
	repo, err := g.open()
	if err != nil {
		return false, err
	}
	_, err = repo.Reference(plumbing.NewTagReferenceName(tagName), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag: %w", err)
	}
	return true, nil
}

func (g *GoGitClient) CreateTag(tagName, message string, force bool) error {
	repo, err := g.open()
	if err != nil {
		return err
	}
	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("failed to resolve HEAD: %w", err)
	}
	sig, err := signature(repo)
	if err != nil {
		return err
	}

	if force {
		if err := repo.DeleteTag(tagName); err != nil && !errors.Is(err, gogit.ErrTagNotFound) {
			return fmt.Errorf("failed to replace tag %s: %w", tagName, err)
		}
	}

	if _, err := repo.CreateTag(tagName, head.Hash(), &gogit.CreateTagOptions{Tagger: sig, Message: message}); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tagName, err)
	}
	return nil
}

// signature reads user.name and user.email from the repository, global and
// system configuration, in git's order of precedence.
func signature(repo *gogit.Repository) (*object.Signature, error) {
	local, err := repo.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to read git config: %w", err)
	}
	name, email := local.User.Name, local.User.Email

	if name == "" || email == "" {
		if global, err := config.LoadConfig(config.GlobalScope); err == nil {
			if name == "" {
				name = global.User.Name
			}
			if email == "" {
				email = global.User.Email
			}
		}
	}
	if name == "" || email == "" {
		return nil, errors.New("git user.name and user.email must be configured")
	}

	return &object.Signature{Name: name, Email: email, When: time.Now()}, nil
}
