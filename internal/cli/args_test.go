package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jakoblorz/project-version/internal/filesystem"
)

func TestNormalizeArgs(t *testing.T) {
	root := NewRootCommand(filesystem.NewMockFileSystem())

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "empty", args: []string{}, want: []string{}},
		{name: "directory only", args: []string{"./app"}, want: []string{"./app"}},
		{name: "subcommand first", args: []string{"bump", "minor"}, want: []string{"bump", "minor"}},
		{
			name: "directory before subcommand",
			args: []string{"./app", "bump", "minor", "--no-tag"},
			want: []string{"bump", "minor", "--no-tag", "--dir", "./app"},
		},
		{
			name: "global flags before directory",
			args: []string{"-v", "-n", "./app", "set", "2.0.0"},
			want: []string{"-v", "-n", "set", "2.0.0", "--dir", "./app"},
		},
		{
			name: "directory before show",
			args: []string{"/srv/chart", "show"},
			want: []string{"show", "--dir", "/srv/chart"},
		},
		{
			name: "explicit dir flag",
			args: []string{"-C", "./app", "bump"},
			want: []string{"-C", "./app", "bump"},
		},
		{
			name: "unknown trailing word",
			args: []string{"./app", "release"},
			want: []string{"./app", "release"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeArgs(tt.args, root))
		})
	}
}
