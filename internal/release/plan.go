// Package release plans and applies a version change and drives the
// follow-up steps: changelog, lock files, commit and tag.
package release

import (
	"fmt"

	"github.com/jakoblorz/project-version/internal/manifest"
	"github.com/jakoblorz/project-version/internal/models"
)

// PlanBump plans an increment of the current version.
func PlanBump(project *models.DetectedProject, adapter manifest.Adapter, bumpType models.BumpType) (*models.BumpPlan, error) {
	if !bumpType.IsValid() {
		return nil, fmt.Errorf("invalid bump type %q", bumpType)
	}

	current, err := adapter.GetVersion()
	if err != nil {
		return nil, err
	}

	plan := &models.BumpPlan{
		Project:        project,
		Operation:      models.OperationBump,
		BumpType:       bumpType,
		CurrentVersion: current,
		TargetVersion:  current.Bump(bumpType),
	}
	if err := fillFiles(plan, adapter); err != nil {
		return nil, err
	}
	return plan, nil
}

// PlanSet plans a change to an explicit version. The target must be higher
// than the current version unless force is set.
func PlanSet(project *models.DetectedProject, adapter manifest.Adapter, text string, force bool) (*models.BumpPlan, error) {
	target, err := models.ParseVersion(text)
	if err != nil {
		return nil, err
	}

	current, err := adapter.GetVersion()
	if err != nil {
		return nil, err
	}

	plan := &models.BumpPlan{
		Project:        project,
		Operation:      models.OperationSet,
		CurrentVersion: current,
		TargetVersion:  target,
	}

	if plan.IsDowngrade() {
		if !force {
			return nil, fmt.Errorf("%w: %s is not higher than the current version %s (use --force to override)",
				models.ErrVersionNotHigher, target, current)
		}
		plan.Forced = true
		if target.Compare(current) == 0 {
			plan.AddWarning(fmt.Sprintf("forcing version %s, which equals the current version", target))
		} else {
			plan.AddWarning(fmt.Sprintf("forcing version %s, which is lower than the current version %s", target, current))
		}
	}

	if err := fillFiles(plan, adapter); err != nil {
		return nil, err
	}
	return plan, nil
}

// fillFiles records the files the plan touches and warns about satellite
// literals that disagree with the authoritative version.
func fillFiles(plan *models.BumpPlan, adapter manifest.Adapter) error {
	edits, err := adapter.Edits(plan.TargetVersion)
	if err != nil {
		return err
	}

	for _, e := range edits {
		plan.FilesToModify = append(plan.FilesToModify, e.Path)
		for _, c := range e.Changes {
			old, err := models.ParseVersion(c.OldValue)
			if err != nil || !old.Equal(plan.CurrentVersion) {
				plan.AddWarning(fmt.Sprintf("%s in %s was %q, expected %s; it is rewritten anyway",
					c.Field, e.Path, c.OldValue, plan.CurrentVersion))
			}
		}
	}
	return nil
}
