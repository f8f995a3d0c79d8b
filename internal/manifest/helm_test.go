package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

func TestHelmChart_Edits(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain scalar",
			src:  "apiVersion: v2\nname: api\n# chart version\nversion: 0.1.0\nappVersion: \"0.1.0\"\n",
			want: "apiVersion: v2\nname: api\n# chart version\nversion: 0.2.0\nappVersion: \"0.1.0\"\n",
		},
		{
			name: "double quoted",
			src:  "name: api\nversion: \"0.1.0\" # release\n",
			want: "name: api\nversion: \"0.2.0\" # release\n",
		},
		{
			name: "single quoted with indentation after key",
			src:  "name: api\nversion:   'v0.1.0'\n",
			want: "name: api\nversion:   'v0.2.0'\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := filesystem.NewMockFileSystem()
			fs.AddFile("/chart/Chart.yaml", []byte(tt.src))

			edits, err := NewHelmChart(fs, "/chart/Chart.yaml").Edits(models.MustParseVersion("0.2.0"))
			require.NoError(t, err)
			require.Len(t, edits, 1)
			assert.Equal(t, tt.want, string(edits[0].After))
		})
	}
}

func TestHelmChart_GetVersion(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/chart/Chart.yaml", []byte("apiVersion: v2\nname: api\nversion: 1.0.0-rc.1\n"))

	adapter := NewHelmChart(fs, "/chart/Chart.yaml")
	v, err := adapter.GetVersion()
	require.NoError(t, err)
	assert.Equal(t, "1.0.0-rc.1", v.String())

	name, err := adapter.Name()
	require.NoError(t, err)
	assert.Equal(t, "api", name)
}

func TestHelmChart_Errors(t *testing.T) {
	fs := filesystem.NewMockFileSystem()
	fs.AddFile("/a/Chart.yaml", []byte("name: api\n"))
	fs.AddFile("/b/Chart.yaml", []byte("- not\n- a mapping\n"))
	fs.AddFile("/c/Chart.yaml", []byte("name: [unclosed\n"))

	_, err := NewHelmChart(fs, "/a/Chart.yaml").GetVersion()
	assert.ErrorIs(t, err, models.ErrVersionFieldNotFound)

	_, err = NewHelmChart(fs, "/b/Chart.yaml").GetVersion()
	assert.ErrorIs(t, err, models.ErrManifestParse)

	_, err = NewHelmChart(fs, "/c/Chart.yaml").GetVersion()
	assert.ErrorIs(t, err, models.ErrManifestParse)
}
