package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/project-version/internal/config"
	"github.com/jakoblorz/project-version/internal/release"
)

// releaseFlags switch off follow-up steps enabled by configuration.
type releaseFlags struct {
	noCommit     bool
	noTag        bool
	noLockUpdate bool
	noChangelog  bool
	forceTag     bool
}

func (f *releaseFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCommit, "no-commit", false, "do not create a git commit (implies --no-tag)")
	cmd.Flags().BoolVar(&f.noTag, "no-tag", false, "do not create a git tag")
	cmd.Flags().BoolVar(&f.noLockUpdate, "no-lockupdate", false, "do not run the package manager to refresh lock files")
	cmd.Flags().BoolVar(&f.noChangelog, "no-changelog", false, "do not update the changelog")
	cmd.Flags().BoolVar(&f.forceTag, "force-tag", false, "replace the tag if it already exists")
}

// runRelease loads the configuration, runs the release and prints the report.
func (a *app) runRelease(cmd *cobra.Command, flags *releaseFlags, req release.Request) error {
	dir, err := a.resolveDir()
	if err != nil {
		return err
	}
	logger := loggerFromContext(cmd.Context())

	cfg, err := config.Load(a.fs, dir, a.configOptions...)
	if err != nil {
		return err
	}
	if len(cfg.Sources) > 0 {
		logger.Debug("loaded configuration", "sources", cfg.Sources)
	}

	req.Dir = dir
	req.DryRun = a.dryRun
	req.Changelog = cfg.Changelog && !flags.noChangelog
	req.Lockfile = cfg.Lockfile && !flags.noLockUpdate
	req.Commit = cfg.Commit && !flags.noCommit
	req.Tag = cfg.Tag && !flags.noTag && req.Commit
	req.ForceTag = flags.forceTag

	options := []release.RunnerOption{release.WithLogger(logger)}
	if a.confirm != nil {
		options = append(options, release.WithConfirm(a.confirm))
	}
	options = append(options, a.runnerOptions...)

	p := newProgress(logger)
	report, err := release.NewRunner(a.fs, cfg, options...).Run(cmd.Context(), req)
	if report != nil {
		renderReport(cmd.OutOrStdout(), report)
	}
	if err != nil {
		return err
	}
	p.done(fmt.Sprintf("released %s", report.Plan.TargetVersion))
	return nil
}
