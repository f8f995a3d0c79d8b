package release

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/manifest"
	"github.com/jakoblorz/project-version/internal/models"
)

func nodeFixture(t *testing.T, version string) (*filesystem.MockFileSystem, *models.DetectedProject, manifest.Adapter) {
	t.Helper()
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/p/package.json", []byte(`{
  "name": "demo",
  "version": "`+version+`",
  "private": true
}
`))
	project := &models.DetectedProject{
		Kind:                models.KindNodePackage,
		Root:                "/p",
		PrimaryManifestPath: "/p/package.json",
		Name:                "demo",
	}
	adapter, err := manifest.New(fs, project)
	require.NoError(t, err)
	return fs, project, adapter
}

func TestPlanBump(t *testing.T) {
	tests := []struct {
		bump models.BumpType
		want string
	}{
		{models.BumpPatch, "1.2.4"},
		{models.BumpMinor, "1.3.0"},
		{models.BumpMajor, "2.0.0"},
	}

	for _, tt := range tests {
		t.Run(string(tt.bump), func(t *testing.T) {
			_, project, adapter := nodeFixture(t, "1.2.3")

			plan, err := PlanBump(project, adapter, tt.bump)
			require.NoError(t, err)

			assert.Equal(t, models.OperationBump, plan.Operation)
			assert.Equal(t, "1.2.3", plan.CurrentVersion.String())
			assert.Equal(t, tt.want, plan.TargetVersion.String())
			assert.Equal(t, []string{"/p/package.json"}, plan.FilesToModify)
			assert.Empty(t, plan.Warnings)
		})
	}
}

func TestPlanBump_InvalidType(t *testing.T) {
	_, project, adapter := nodeFixture(t, "1.2.3")

	_, err := PlanBump(project, adapter, models.BumpType("huge"))
	assert.Error(t, err)
}

func TestPlanSet(t *testing.T) {
	_, project, adapter := nodeFixture(t, "1.2.3")

	plan, err := PlanSet(project, adapter, "2.0.0-rc.1", false)
	require.NoError(t, err)

	assert.Equal(t, models.OperationSet, plan.Operation)
	assert.Equal(t, "2.0.0-rc.1", plan.TargetVersion.String())
	assert.False(t, plan.Forced)
	assert.Empty(t, plan.Warnings)
}

func TestPlanSet_NotHigher(t *testing.T) {
	for _, target := range []string{"1.2.3", "1.0.0", "1.2.3-rc.1"} {
		t.Run(target, func(t *testing.T) {
			_, project, adapter := nodeFixture(t, "1.2.3")

			plan, err := PlanSet(project, adapter, target, false)
			assert.ErrorIs(t, err, models.ErrVersionNotHigher)
			assert.Nil(t, plan)
		})
	}
}

func TestPlanSet_Forced(t *testing.T) {
	_, project, adapter := nodeFixture(t, "1.2.3")

	plan, err := PlanSet(project, adapter, "1.0.0", true)
	require.NoError(t, err)

	assert.True(t, plan.Forced)
	assert.Equal(t, "1.0.0", plan.TargetVersion.String())
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "lower")
}

func TestPlanSet_ForcedEqual(t *testing.T) {
	_, project, adapter := nodeFixture(t, "1.2.3")

	plan, err := PlanSet(project, adapter, "1.2.3", true)
	require.NoError(t, err)

	assert.True(t, plan.Forced)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "equals")
}

func TestPlanSet_InvalidVersion(t *testing.T) {
	_, project, adapter := nodeFixture(t, "1.2.3")

	_, err := PlanSet(project, adapter, "1.2", false)
	assert.ErrorIs(t, err, models.ErrInvalidVersionFormat)
}

func TestPlan_SatelliteMismatchWarns(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/g/g.gemspec", []byte("Gem::Specification.new do |s|\n  s.name = \"g\"\n  s.version = \"1.1.0\"\nend\n"))
	fs.AddFile("/g/lib/g/version.rb", []byte("module G\n  VERSION = \"1.2.0\"\nend\n"))

	project := &models.DetectedProject{Kind: models.KindRubyGem, Root: "/g", PrimaryManifestPath: "/g/g.gemspec"}
	adapter, err := manifest.New(fs, project)
	require.NoError(t, err)

	plan, err := PlanBump(project, adapter, models.BumpMinor)
	require.NoError(t, err)

	assert.Equal(t, "1.2.0", plan.CurrentVersion.String())
	assert.ElementsMatch(t, []string{"/g/lib/g/version.rb", "/g/g.gemspec"}, plan.FilesToModify)
	require.Len(t, plan.Warnings, 1)
	assert.Contains(t, plan.Warnings[0], "/g/g.gemspec")
	assert.Contains(t, plan.Warnings[0], "1.1.0")
}
