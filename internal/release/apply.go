package release

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/manifest"
	"github.com/jakoblorz/project-version/internal/models"
)

const tempAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// WriteError reports a failure part way through writing a multi-file
// change. Files in Updated already carry the new version.
type WriteError struct {
	Updated    []string
	NotUpdated []string
	Err        error
}

func (e *WriteError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "failed to write version files: %v", e.Err)
	if len(e.Updated) > 0 {
		fmt.Fprintf(&b, "; updated: %s", strings.Join(e.Updated, ", "))
	}
	if len(e.NotUpdated) > 0 {
		fmt.Fprintf(&b, "; not updated: %s", strings.Join(e.NotUpdated, ", "))
	}
	return b.String()
}

func (e *WriteError) Unwrap() error { return e.Err }

// Apply writes the plan's target version into every file that carries it
// and returns the modified paths. With dryRun nothing is written and the
// returned paths are those that would change.
func Apply(fsys filesystem.FileSystem, adapter manifest.Adapter, plan *models.BumpPlan, dryRun bool) ([]string, error) {
	edits, err := computeEdits(adapter, plan)
	if err != nil {
		return nil, err
	}
	if !dryRun {
		if err := writeEdits(fsys, edits); err != nil {
			return nil, err
		}
	}
	return editPaths(edits), nil
}

// computeEdits returns the edits that change content. Nothing is written.
func computeEdits(adapter manifest.Adapter, plan *models.BumpPlan) ([]manifest.Edit, error) {
	edits, err := adapter.Edits(plan.TargetVersion)
	if err != nil {
		return nil, err
	}
	changed := edits[:0:0]
	for _, e := range edits {
		if !bytes.Equal(e.Before, e.After) {
			changed = append(changed, e)
		}
	}
	return changed, nil
}

func editPaths(edits []manifest.Edit) []string {
	paths := make([]string, 0, len(edits))
	for _, e := range edits {
		paths = append(paths, e.Path)
	}
	return paths
}

// writeEdits stages every file next to its target and then renames the
// staged files into place, so a failure while staging leaves every target
// untouched.
func writeEdits(fsys filesystem.FileSystem, edits []manifest.Edit) error {
	paths := editPaths(edits)
	staged := make([]string, 0, len(edits))

	cleanup := func(temps []string) {
		for _, tmp := range temps {
			_ = fsys.Remove(tmp)
		}
	}

	for _, e := range edits {
		tmp, err := stagedName(e.Path)
		if err != nil {
			cleanup(staged)
			return &WriteError{NotUpdated: paths, Err: err}
		}
		if err := fsys.WriteFile(tmp, e.After, fileMode(fsys, e.Path)); err != nil {
			cleanup(staged)
			return &WriteError{NotUpdated: paths, Err: fmt.Errorf("failed to stage %s: %w", e.Path, err)}
		}
		staged = append(staged, tmp)
	}

	for i, e := range edits {
		if err := fsys.Rename(staged[i], e.Path); err != nil {
			cleanup(staged[i:])
			return &WriteError{
				Updated:    paths[:i],
				NotUpdated: paths[i:],
				Err:        fmt.Errorf("failed to replace %s: %w", e.Path, err),
			}
		}
	}
	return nil
}

func stagedName(path string) (string, error) {
	id, err := gonanoid.Generate(tempAlphabet, 8)
	if err != nil {
		return "", fmt.Errorf("failed to generate temp file name: %w", err)
	}
	return filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+id+".tmp"), nil
}

func fileMode(fsys filesystem.FileSystem, path string) fs.FileMode {
	info, err := fsys.Stat(path)
	if err != nil || info.Mode().Perm() == 0 {
		return 0644
	}
	return info.Mode().Perm()
}

// IsWriteError reports whether err is a partial write failure.
func IsWriteError(err error) (*WriteError, bool) {
	var we *WriteError
	if errors.As(err, &we) {
		return we, true
	}
	return nil, false
}
