package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jakoblorz/project-version/internal/models"
	"github.com/jakoblorz/project-version/internal/release"
	"github.com/jakoblorz/project-version/internal/tui"
)

func renderProject(w io.Writer, project *models.DetectedProject, version *models.Version) {
	title := project.Kind.DisplayName()
	if project.Name != "" {
		title += " " + project.Name
	}
	fmt.Fprintln(w, tui.TitleStyle.Render("📦 "+title))

	row := func(label, value string) {
		fmt.Fprintf(w, "  %s %s\n", tui.LabelStyle.Render(label), value)
	}
	row("directory", project.Root)
	row("manifest", project.PrimaryManifestPath)
	if project.MemberManifestPath != "" {
		row("member", project.MemberManifestPath)
	}
	if len(project.SatellitePaths) == 0 {
		row("satellites", tui.SubtleStyle.Render("none"))
	} else {
		row("satellites", strings.Join(project.SatellitePaths, ", "))
	}
	row("version", tui.VersionStyle.Render(version.String()))
}

func renderReport(w io.Writer, report *release.Report) {
	plan := report.Plan

	name := report.Project.Name
	if name == "" {
		name = report.Project.Kind.DisplayName()
	}
	header := fmt.Sprintf("%s %s → %s", name, plan.CurrentVersion, plan.TargetVersion)
	if report.DryRun {
		header += " (dry run)"
	}
	fmt.Fprintln(w, tui.HeaderStyle.Render(header))
	fmt.Fprintln(w)

	for _, warning := range plan.Warnings {
		fmt.Fprintln(w, tui.WarningStyle.Render("⚠️  "+warning))
	}
	if len(plan.Warnings) > 0 {
		fmt.Fprintln(w)
	}

	verb := "Updated"
	if report.DryRun {
		verb = "Would update"
	}
	if len(report.Edits) == 0 {
		fmt.Fprintln(w, tui.SubtleStyle.Render("No version files changed"))
	} else {
		fmt.Fprintf(w, "%s %d file(s):\n", verb, len(report.Edits))
	}
	for _, e := range report.Edits {
		fmt.Fprintf(w, "  %s %s\n", tui.SuccessStyle.Render("✓"), e.Path)
		for _, c := range e.Changes {
			fmt.Fprintf(w, "      %s %s → %s\n", tui.DescStyle.Render(c.Field), c.OldValue, c.NewValue)
		}
	}

	if len(report.Steps) > 0 {
		fmt.Fprintln(w)
	}
	for _, s := range report.Steps {
		fmt.Fprintf(w, "  %s %-10s %s\n", stepIcon(s.Status), s.Name, stepDetail(s))
	}
}

func stepIcon(status release.StepStatus) string {
	switch status {
	case release.StepSucceeded:
		return tui.SuccessStyle.Render("✓")
	case release.StepFailed:
		return tui.ErrorStyle.Render("✗")
	default:
		return tui.SubtleStyle.Render("-")
	}
}

func stepDetail(s release.Step) string {
	switch s.Status {
	case release.StepFailed:
		if s.Err != nil && s.Err.Error() != s.Detail {
			return tui.ErrorStyle.Render(fmt.Sprintf("%s: %v", s.Detail, s.Err))
		}
		return tui.ErrorStyle.Render(s.Detail)
	case release.StepSkipped:
		return tui.SubtleStyle.Render("skipped: " + s.Detail)
	default:
		return s.Detail
	}
}
