package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/jakoblorz/project-version/internal/manifest"
	"github.com/jakoblorz/project-version/internal/models"
	"github.com/jakoblorz/project-version/internal/release"
)

func mustVersion(t *testing.T, s string) *models.Version {
	t.Helper()
	v, err := models.ParseVersion(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestRenderProject(t *testing.T) {
	project := &models.DetectedProject{
		Kind:                models.KindRubyGem,
		Root:                "/src/widget",
		PrimaryManifestPath: "/src/widget/widget.gemspec",
		SatellitePaths:      []string{"/src/widget/lib/widget/version.rb"},
		Name:                "widget",
	}

	var buf bytes.Buffer
	renderProject(&buf, project, mustVersion(t, "0.4.1"))
	snaps.MatchSnapshot(t, buf.String())
}

func TestRenderReport(t *testing.T) {
	project := &models.DetectedProject{
		Kind:                models.KindRustWorkspaceMember,
		Root:                "/src/ws/crates/core",
		PrimaryManifestPath: "/src/ws/Cargo.toml",
		MemberManifestPath:  "/src/ws/crates/core/Cargo.toml",
		Name:                "core",
	}
	plan := &models.BumpPlan{
		Project:        project,
		Operation:      models.OperationBump,
		BumpType:       models.BumpMinor,
		CurrentVersion: mustVersion(t, "0.9.3"),
		TargetVersion:  mustVersion(t, "0.10.0"),
		FilesToModify:  []string{"/src/ws/Cargo.toml"},
	}
	edits := []manifest.Edit{{
		Path:    "/src/ws/Cargo.toml",
		Changes: []manifest.Change{{Field: "[workspace.package].version", OldValue: "0.9.3", NewValue: "0.10.0"}},
	}}

	t.Run("released", func(t *testing.T) {
		report := &release.Report{
			Project: project,
			Plan:    plan,
			Edits:   edits,
			Files:   []string{"/src/ws/Cargo.toml", "/src/ws/Cargo.lock"},
			Steps: []release.Step{
				{Name: release.StepChangelog, Status: release.StepSkipped, Detail: "no changelog found"},
				{Name: release.StepLockfile, Status: release.StepFailed, Detail: "cargo update --workspace", Err: errors.New("cargo not found in PATH")},
				{Name: release.StepCommit, Status: release.StepSucceeded, Detail: "release: version 0.10.0"},
				{Name: release.StepTag, Status: release.StepSucceeded, Detail: "v0.10.0"},
			},
			Commit: "abc1234",
			Tag:    "v0.10.0",
		}

		var buf bytes.Buffer
		renderReport(&buf, report)
		snaps.MatchSnapshot(t, buf.String())
	})

	t.Run("dry run with warning", func(t *testing.T) {
		forced := *plan
		forced.Warnings = []string{"forcing version 0.10.0, which equals the current version"}
		report := &release.Report{
			Project: project,
			Plan:    &forced,
			DryRun:  true,
			Edits:   edits,
			Steps: []release.Step{
				{Name: release.StepCommit, Status: release.StepSkipped, Detail: fmt.Sprintf("dry run: would commit %d file(s)", 1)},
				{Name: release.StepTag, Status: release.StepSkipped, Detail: "dry run: would create tag v0.10.0"},
			},
		}

		var buf bytes.Buffer
		renderReport(&buf, report)
		snaps.MatchSnapshot(t, buf.String())
	})
}
