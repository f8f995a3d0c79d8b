package release

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/jakoblorz/project-version/internal/changelog"
	"github.com/jakoblorz/project-version/internal/config"
	"github.com/jakoblorz/project-version/internal/detect"
	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/git"
	"github.com/jakoblorz/project-version/internal/lockfile"
	"github.com/jakoblorz/project-version/internal/models"
)

// Request describes one invocation.
type Request struct {
	Dir       string
	Operation models.Operation

	// BumpType is used for OperationBump, Version for OperationSet.
	BumpType models.BumpType
	Version  string
	Force    bool

	DryRun    bool
	Changelog bool
	Lockfile  bool
	Commit    bool
	Tag       bool
	ForceTag  bool
}

// ConfirmFunc asks whether an existing tag may be replaced.
type ConfirmFunc func(tagName string) (bool, error)

// Runner executes a release.
type Runner struct {
	fs         filesystem.FileSystem
	cfg        *config.Config
	logger     *log.Logger
	gitClient  func(dir string) git.GitClient
	lockRunner lockfile.Runner
	changelog  *changelog.Changelog
	confirm    ConfirmFunc
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

func WithLogger(l *log.Logger) RunnerOption {
	return func(r *Runner) { r.logger = l }
}

// WithGitClient overrides the client constructed from the configured backend.
func WithGitClient(factory func(dir string) git.GitClient) RunnerOption {
	return func(r *Runner) { r.gitClient = factory }
}

func WithLockRunner(lr lockfile.Runner) RunnerOption {
	return func(r *Runner) { r.lockRunner = lr }
}

func WithChangelog(cl *changelog.Changelog) RunnerOption {
	return func(r *Runner) { r.changelog = cl }
}

// WithConfirm enables the interactive tag overwrite prompt.
func WithConfirm(fn ConfirmFunc) RunnerOption {
	return func(r *Runner) { r.confirm = fn }
}

func NewRunner(fs filesystem.FileSystem, cfg *config.Config, options ...RunnerOption) *Runner {
	r := &Runner{
		fs:         fs,
		cfg:        cfg,
		logger:     log.Default(),
		lockRunner: lockfile.ExecRunner{},
		changelog:  changelog.NewChangelog(fs),
	}
	r.gitClient = func(dir string) git.GitClient { return git.New(cfg.GitBackend, dir) }
	for _, option := range options {
		option(r)
	}
	return r
}

// Run detects the project, rewrites its version and performs the enabled
// follow-up steps. Detection, planning and file errors abort with a nil
// report. Step failures are recorded in the report and nothing is rolled
// back. A failed commit or tag step is also returned as an error once every
// step has run; changelog and lock file failures are warnings.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	project, adapter, err := detect.New(r.fs, detect.WithLogger(r.logger)).Detect(req.Dir)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("detected project", "kind", project.Kind, "name", project.Name)

	var plan *models.BumpPlan
	switch req.Operation {
	case models.OperationSet:
		plan, err = PlanSet(project, adapter, req.Version, req.Force)
	default:
		plan, err = PlanBump(project, adapter, req.BumpType)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range plan.Warnings {
		r.logger.Warn(w)
	}

	edits, err := computeEdits(adapter, plan)
	if err != nil {
		return nil, err
	}
	if !req.DryRun {
		if err := writeEdits(r.fs, edits); err != nil {
			return nil, err
		}
	}

	report := &Report{Project: project, Plan: plan, DryRun: req.DryRun, Edits: edits}
	for _, p := range editPaths(edits) {
		report.addFile(p)
	}

	data := config.TemplateData{
		Version:  plan.TargetVersion.String(),
		Previous: plan.CurrentVersion.String(),
		Kind:     string(project.Kind),
		Project:  project.Name,
	}

	r.runChangelog(report, req)
	lockFiles := r.runLockfile(ctx, report, req)
	committed := r.runCommit(ctx, report, req, data, lockFiles)
	if err := r.runTag(ctx, report, req, data, committed); err != nil {
		return report, err
	}
	return report, report.gitFailure()
}

func (r *Runner) runChangelog(report *Report, req Request) {
	if !req.Changelog {
		report.add(StepChangelog, StepSkipped, "disabled", nil)
		return
	}

	plan := report.Plan
	result, err := r.changelog.Update(report.Project.Root, plan.CurrentVersion, plan.TargetVersion, req.DryRun)
	switch {
	case err != nil:
		report.add(StepChangelog, StepFailed, err.Error(), err)
	case result == nil:
		report.add(StepChangelog, StepSkipped, "no changelog found", nil)
	case !result.Found:
		r.logger.Warn("no unreleased section found", "changelog", result.Path)
		report.add(StepChangelog, StepSkipped, "no unreleased section in "+result.Path, nil)
	case req.DryRun:
		report.add(StepChangelog, StepSkipped,
			fmt.Sprintf("dry run: would replace %q with %q in %s", result.Previous, result.Heading, result.Path), nil)
	default:
		report.addFile(result.Path)
		report.add(StepChangelog, StepSucceeded, result.Path, nil)
	}
}

// runLockfile returns the lock files to include in the commit.
func (r *Runner) runLockfile(ctx context.Context, report *Report, req Request) []string {
	if !req.Lockfile {
		report.add(StepLockfile, StepSkipped, "disabled", nil)
		return nil
	}

	cmd, ok := lockfile.Select(r.fs, report.Project)
	if !ok {
		report.add(StepLockfile, StepSkipped, "no package manager detected", nil)
		return nil
	}
	if req.DryRun {
		report.add(StepLockfile, StepSkipped, fmt.Sprintf("dry run: would run %q in %s", cmd.String(), cmd.Dir), nil)
		return nil
	}

	r.logger.Debug("updating lock files", "command", cmd.String(), "dir", cmd.Dir)
	out, err := r.lockRunner.Run(ctx, cmd)
	if err != nil {
		report.add(StepLockfile, StepFailed, cmd.String(), err)
		return nil
	}
	if len(out) > 0 {
		r.logger.Debug("package manager output", "output", string(out))
	}

	files := cmd.ExistingLockFiles(r.fs)
	for _, f := range files {
		report.addFile(f)
	}
	report.add(StepLockfile, StepSucceeded, cmd.String(), nil)
	return files
}

func (r *Runner) runCommit(ctx context.Context, report *Report, req Request, data config.TemplateData, lockFiles []string) bool {
	if !req.Commit {
		report.add(StepCommit, StepSkipped, "disabled", nil)
		return false
	}

	message, err := r.cfg.RenderCommitMessage(data)
	if err != nil {
		report.add(StepCommit, StepFailed, "commit message", err)
		return false
	}
	if req.DryRun {
		report.add(StepCommit, StepSkipped, fmt.Sprintf("dry run: would commit %d file(s) with message %q", len(report.Files), message), nil)
		return false
	}

	client := r.gitClient(report.Project.Root).WithContext(ctx)
	if ok, err := client.IsGitRepo(); err != nil || !ok {
		report.add(StepCommit, StepSkipped, "not a git repository", err)
		return false
	}

	paths := append([]string(nil), report.Files...)
	for _, f := range lockFiles {
		if !contains(paths, f) {
			paths = append(paths, f)
		}
	}
	if err := client.Add(paths...); err != nil {
		report.add(StepCommit, StepFailed, "git add", err)
		return false
	}
	sha, err := client.Commit(message)
	if err != nil {
		report.add(StepCommit, StepFailed, "git commit", err)
		return false
	}

	report.Commit = sha
	report.add(StepCommit, StepSucceeded, message, nil)
	return true
}

func (r *Runner) runTag(ctx context.Context, report *Report, req Request, data config.TemplateData, committed bool) error {
	if !req.Tag {
		report.add(StepTag, StepSkipped, "disabled", nil)
		return nil
	}

	name, err := r.cfg.RenderTagName(data)
	if err != nil {
		report.add(StepTag, StepFailed, "tag name", err)
		return nil
	}
	report.Tag = name

	if req.DryRun {
		report.add(StepTag, StepSkipped, fmt.Sprintf("dry run: would create tag %s", name), nil)
		return nil
	}
	if !committed {
		report.add(StepTag, StepSkipped, "no release commit", nil)
		return nil
	}

	client := r.gitClient(report.Project.Root).WithContext(ctx)
	exists, err := client.TagExists(name)
	if err != nil {
		report.add(StepTag, StepFailed, name, err)
		return nil
	}

	force := false
	if exists {
		switch {
		case req.ForceTag:
			force = true
		case r.confirm != nil:
			ok, err := r.confirm(name)
			if err != nil {
				report.add(StepTag, StepFailed, name, err)
				return nil
			}
			force = ok
		}
		if !force {
			err := fmt.Errorf("%w: %s (use --force-tag to replace it)", models.ErrTagAlreadyExists, name)
			report.add(StepTag, StepFailed, name+" already exists", err)
			return err
		}
	}

	message, err := r.cfg.RenderCommitMessage(data)
	if err != nil {
		report.add(StepTag, StepFailed, name, err)
		return nil
	}
	if err := client.CreateTag(name, message, force); err != nil {
		report.add(StepTag, StepFailed, name, err)
		return nil
	}

	detail := name
	if force {
		detail = name + " (replaced)"
	}
	report.add(StepTag, StepSucceeded, detail, nil)
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
