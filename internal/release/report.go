package release

import (
	"fmt"

	"github.com/jakoblorz/project-version/internal/manifest"
	"github.com/jakoblorz/project-version/internal/models"
)

// StepStatus is the outcome of a follow-up step.
type StepStatus string

const (
	StepSucceeded StepStatus = "succeeded"
	StepSkipped   StepStatus = "skipped"
	StepFailed    StepStatus = "failed"
)

// Step names, in execution order.
const (
	StepChangelog = "changelog"
	StepLockfile  = "lockfile"
	StepCommit    = "commit"
	StepTag       = "tag"
)

// Step records what happened to one follow-up step.
type Step struct {
	Name   string
	Status StepStatus
	Detail string
	Err    error
}

// Report is the outcome of a release run. It is complete even when Run
// returns an error after the files were updated.
type Report struct {
	Project *models.DetectedProject
	Plan    *models.BumpPlan
	DryRun  bool

	// Edits are the manifest rewrites, applied or previewed.
	Edits []manifest.Edit

	// Files lists every path that was (or would be) written, including the
	// changelog and refreshed lock files.
	Files []string

	Steps []Step

	Commit string
	Tag    string
}

// Step returns the step with the given name, or nil.
func (r *Report) Step(name string) *Step {
	for i := range r.Steps {
		if r.Steps[i].Name == name {
			return &r.Steps[i]
		}
	}
	return nil
}

// Failed reports whether any step failed.
func (r *Report) Failed() bool {
	for _, s := range r.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}

// gitFailure returns the error of a failed commit or tag step. A failed
// changelog or lock file refresh is only a warning.
func (r *Report) gitFailure() error {
	for _, name := range []string{StepCommit, StepTag} {
		s := r.Step(name)
		if s == nil || s.Status != StepFailed {
			continue
		}
		if s.Err == nil {
			return fmt.Errorf("%s step failed: %s", name, s.Detail)
		}
		return fmt.Errorf("%s step failed: %s: %w", name, s.Detail, s.Err)
	}
	return nil
}

func (r *Report) add(name string, status StepStatus, detail string, err error) *Step {
	r.Steps = append(r.Steps, Step{Name: name, Status: status, Detail: detail, Err: err})
	return &r.Steps[len(r.Steps)-1]
}

func (r *Report) addFile(path string) {
	for _, f := range r.Files {
		if f == path {
			return
		}
	}
	r.Files = append(r.Files, path)
}
